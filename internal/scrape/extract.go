package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fenloai/jobscout/internal/types"
)

var (
	hourlyRangeRe = regexp.MustCompile(`\$(\d+(?:\.\d+)?)\s*-\s*\$(\d+(?:\.\d+)?)`)
	moneyRe       = regexp.MustCompile(`\$(\d[\d,.]*)`)
)

// PageResult is everything extracted from one rendered search page.
type PageResult struct {
	Listings []types.Listing
	// MaxPage is the highest page number visible in the pagination
	// controls, 0 when no pagination rendered.
	MaxPage int
}

// ExtractListings parses a rendered search page into listings. The
// keyword and page number are recorded on each listing for later
// analysis of which searches produce matches.
func ExtractListings(html, keyword string, pageNum int, now time.Time) (*PageResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to parse search page HTML", Cause: err}
	}

	result := &PageResult{}

	doc.Find(`article[data-test="JobTile"]`).Each(func(_ int, tile *goquery.Selection) {
		uid, _ := tile.Attr("data-ev-job-uid")
		if uid == "" {
			return
		}

		l := types.Listing{
			UID:        uid,
			Keyword:    keyword,
			SourcePage: pageNum,
			ScrapedAt:  now,
		}

		titleEl := tile.Find(`a[data-test*="title"]`).First()
		l.Title = text(titleEl)
		l.URL, _ = titleEl.Attr("href")
		l.PostedText = text(tile.Find(`[data-test="job-pubilshed-date"]`))
		l.Description = text(tile.Find(`[data-test*="JobDescription"]`))
		l.ExperienceLevel = text(tile.Find(`[data-test="experience-level"]`))

		jobTypeText := text(tile.Find(`[data-test="job-type-label"]`))
		switch {
		case strings.Contains(strings.ToLower(jobTypeText), "hourly"):
			l.JobType = types.JobTypeHourly
			if m := hourlyRangeRe.FindStringSubmatch(jobTypeText); m != nil {
				l.HourlyRateMin = parseMoney(m[1])
				l.HourlyRateMax = parseMoney(m[2])
			}
		case strings.Contains(strings.ToLower(jobTypeText), "fixed"):
			l.JobType = types.JobTypeFixed
		}

		if fp := text(tile.Find(`[data-test="is-fixed-price"]`)); fp != "" {
			if m := moneyRe.FindStringSubmatch(fp); m != nil {
				l.FixedPrice = parseMoney(m[1])
			}
		}

		tile.Find(`[data-test="TokenClamp JobAttrs"] [data-test="token"]`).Each(func(_ int, tok *goquery.Selection) {
			if s := text(tok); s != "" {
				l.Skills = append(l.Skills, s)
			}
		})

		l.ClientCountry = text(tile.Find(`[data-test="client-country"], [data-test="location"]`))
		l.ClientTotalSpent = text(tile.Find(`[data-test="total-spent"], [data-test="client-spendings"]`))
		l.ClientRating = text(tile.Find(`[data-test="client-rating"]`))

		verified := text(tile.Find(`[data-test="payment-verified"], [data-test="payment-verification-status"]`))
		l.PaymentVerified = strings.Contains(strings.ToLower(verified), "verified") &&
			!strings.Contains(strings.ToLower(verified), "unverified")

		result.Listings = append(result.Listings, l)
	})

	doc.Find(`[data-test="pagination"] [data-ev-page_index]`).Each(func(_ int, btn *goquery.Selection) {
		raw, _ := btn.Attr("data-ev-page_index")
		if n, err := strconv.Atoi(raw); err == nil && n > result.MaxPage {
			result.MaxPage = n
		}
	})

	return result, nil
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}

func parseMoney(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}
