package matching

import (
	"regexp"
	"strconv"
	"strings"
)

// Free-text patterns job boards use for client history. Case-insensitive.
var (
	spentMillionsRe  = regexp.MustCompile(`(?i)\$?([\d.]+)M\+?`)
	spentThousandsRe = regexp.MustCompile(`(?i)\$?([\d.]+)K\+?`)
	spentLessThanRe  = regexp.MustCompile(`(?i)less than \$?([\d.]+)K`)
	spentPlainRe     = regexp.MustCompile(`\$?([\d.]+)\+?`)
	ratingRe         = regexp.MustCompile(`([\d.]+)\s+of\s+5`)
)

// parseClientSpent converts a spend-tier string like "$50K+" into a dollar
// estimate. "Less than $XK" is estimated conservatively as X * 500. Returns
// false when the text is absent or unparseable; the caller drops the signal
// rather than defaulting it to zero.
func parseClientSpent(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "No spending history") {
		return 0, false
	}

	// Order matters: "Less than $10K" also matches the bare K pattern.
	if m := spentLessThanRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 500, true
		}
	}
	if m := spentMillionsRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1_000_000, true
		}
	}
	if m := spentThousandsRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1_000, true
		}
	}
	if m := spentPlainRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// parseClientRating extracts the leading number from "4.9 of 5" or
// "4.9 of 5 stars". Returns false when absent or unparseable.
func parseClientRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "No ratings yet") {
		return 0, false
	}
	if m := ratingRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
