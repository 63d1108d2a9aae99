// Package notify renders and delivers the end-of-run email digest:
// what was scraped, what matched, and the proposals awaiting review.
// When SMTP is unavailable the digest is written to disk instead so no
// run outcome is silently lost.
package notify

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/fenloai/jobscout/internal/types"
)

//go:embed digest.html.tmpl
var digestTemplate string

// maxItemsPerDigest caps how many proposal cards one email carries.
const maxItemsPerDigest = 10

// previewLimit truncates proposal text in the digest.
const previewLimit = 400

// Item pairs a proposal with its listing for rendering.
type Item struct {
	Proposal types.Proposal
	Listing  types.Listing
}

// Digest is everything one notification email carries.
type Digest struct {
	Stats        types.RunHealth
	Items        []Item
	Overflow     int
	DashboardURL string
	GeneratedAt  time.Time
}

// NewDigest assembles a digest, capping the per-email item count.
func NewDigest(stats types.RunHealth, items []Item, dashboardURL string) *Digest {
	overflow := 0
	if len(items) > maxItemsPerDigest {
		overflow = len(items) - maxItemsPerDigest
		items = items[:maxItemsPerDigest]
	}
	return &Digest{
		Stats:        stats,
		Items:        items,
		Overflow:     overflow,
		DashboardURL: dashboardURL,
		GeneratedAt:  time.Now(),
	}
}

// Subject is the email subject line for this digest.
func (d *Digest) Subject() string {
	if len(d.Items) == 0 {
		if d.Stats.QuotaExhausted {
			return fmt.Sprintf("Job scan: %d matches waiting, daily proposal cap reached", d.Stats.ListingsMatched)
		}
		return fmt.Sprintf("Job scan: %d new listings, no proposals", d.Stats.ListingsNew)
	}
	return fmt.Sprintf("Job scan: %d proposals ready for review", d.Stats.ProposalsGenerated)
}

// Budget formats the listing's price info for display, empty when the
// listing states none.
func (it Item) Budget() string {
	switch it.Listing.JobType {
	case types.JobTypeHourly:
		if it.Listing.HourlyRateMin != nil && it.Listing.HourlyRateMax != nil {
			return fmt.Sprintf("$%.0f-$%.0f/hr", *it.Listing.HourlyRateMin, *it.Listing.HourlyRateMax)
		}
	case types.JobTypeFixed:
		if it.Listing.FixedPrice != nil {
			return fmt.Sprintf("$%.0f fixed", *it.Listing.FixedPrice)
		}
	}
	return ""
}

// Skills returns at most six skills for the card.
func (it Item) Skills() []string {
	if len(it.Listing.Skills) > 6 {
		return it.Listing.Skills[:6]
	}
	return it.Listing.Skills
}

// Preview returns the truncated proposal text.
func (it Item) Preview() string {
	text := it.Proposal.Text
	if len(text) > previewLimit {
		return text[:previewLimit] + "..."
	}
	return text
}

var digestTmpl = template.Must(template.New("digest").Parse(digestTemplate))

// Render produces the HTML email body.
func (d *Digest) Render() (string, error) {
	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return buf.String(), nil
}
