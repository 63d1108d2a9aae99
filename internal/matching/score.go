// Package matching implements the preference-matching engine: a pure,
// deterministic function from (listing, profile) to a 0-100 match score
// with itemized reasons. It performs no I/O and never fails on missing or
// null listing fields; absent data earns a neutral or zero sub-score
// instead of an error.
package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fenloai/jobscout/internal/types"
)

// Criterion names used in match reasons.
const (
	CriterionExclusion        = "exclusion"
	CriterionCategory         = "category"
	CriterionRequiredSkills   = "required_skills"
	CriterionNiceToHaveSkills = "nice_to_have_skills"
	CriterionBudgetFit        = "budget_fit"
	CriterionClientQuality    = "client_quality"
)

// Relative weights of the client-quality sub-signals when all three are
// available. When spend or rating is unavailable its weight is
// redistributed proportionally among the remaining signals.
const (
	verifiedSubWeight = 0.4
	spendSubWeight    = 0.3
	ratingSubWeight   = 0.3
)

// Score rates a listing against the preference profile on a 0-100 scale.
// An exclusion-keyword hit short-circuits to 0.0 with a single reason.
// Raw weights are normalized so the effective weights sum to exactly 100.
func Score(listing *types.Listing, profile *types.Profile) types.MatchResult {
	if hit, keyword := exclusionHit(listing, profile); hit {
		return types.MatchResult{
			Score: 0,
			Reasons: []types.MatchReason{{
				Criterion: CriterionExclusion,
				Weight:    0,
				Score:     0,
				Detail:    fmt.Sprintf("contains exclusion keyword %q (auto-rejected)", keyword),
			}},
		}
	}

	weights := normalizeWeights(profile.Weights)

	catScore, catDetail := categoryScore(listing, profile)
	reqScore, reqDetail := skillScore(listing.Skills, profile.RequiredSkills, "required")
	niceScore, niceDetail := skillScore(listing.Skills, profile.NiceToHaveSkills, "nice-to-have")
	budScore, budDetail := budgetFit(listing, profile)
	cliScore, cliDetail := clientQuality(listing, profile)

	reasons := []types.MatchReason{
		{Criterion: CriterionCategory, Weight: weights.Category, Score: catScore, Detail: catDetail},
		{Criterion: CriterionRequiredSkills, Weight: weights.RequiredSkills, Score: reqScore, Detail: reqDetail},
		{Criterion: CriterionNiceToHaveSkills, Weight: weights.NiceToHaveSkills, Score: niceScore, Detail: niceDetail},
		{Criterion: CriterionBudgetFit, Weight: weights.BudgetFit, Score: budScore, Detail: budDetail},
		{Criterion: CriterionClientQuality, Weight: weights.ClientQuality, Score: cliScore, Detail: cliDetail},
	}

	total := 0.0
	for _, r := range reasons {
		total += r.Score * r.Weight
	}

	return types.MatchResult{Score: total, Reasons: reasons}
}

// Rank scores every listing and returns those at or above the profile
// threshold, sorted by score descending. Listings scoring zero (excluded
// or fully mismatched) are dropped outright.
func Rank(listings []types.Listing, profile *types.Profile) []Ranked {
	ranked := make([]Ranked, 0, len(listings))
	for i := range listings {
		result := Score(&listings[i], profile)
		if result.Score >= profile.Threshold && result.Score > 0 {
			ranked = append(ranked, Ranked{Listing: listings[i], Result: result})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})
	return ranked
}

// Ranked pairs a listing with its match result for downstream stages.
type Ranked struct {
	Listing types.Listing
	Result  types.MatchResult
}

// normalizeWeights scales raw weights so they sum to exactly 100. All-zero
// weights are returned unchanged, which makes every listing score 0.
func normalizeWeights(w types.Weights) types.Weights {
	total := w.Sum()
	if total == 0 || total == 100 {
		return w
	}
	factor := 100.0 / total
	return types.Weights{
		Category:         w.Category * factor,
		RequiredSkills:   w.RequiredSkills * factor,
		NiceToHaveSkills: w.NiceToHaveSkills * factor,
		BudgetFit:        w.BudgetFit * factor,
		ClientQuality:    w.ClientQuality * factor,
	}
}

// exclusionHit scans title and description (not skill tags) for any
// configured exclusion keyword as a case-insensitive substring. Returns
// the first keyword that matched.
func exclusionHit(listing *types.Listing, profile *types.Profile) (bool, string) {
	if len(profile.ExclusionKeywords) == 0 {
		return false, ""
	}
	text := strings.ToLower(listing.Title + " " + listing.Description)
	for _, keyword := range profile.ExclusionKeywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true, keyword
		}
	}
	return false, ""
}

// categoryScore is 1.0 when any listing category matches a preferred
// category (normalized substring containment either way), else 0.0. An
// unclassified listing is penalized here, not rejected.
func categoryScore(listing *types.Listing, profile *types.Profile) (float64, string) {
	if len(listing.Categories) == 0 {
		return 0, "no category assigned"
	}
	for _, cat := range listing.Categories {
		catNorm := strings.ToLower(strings.TrimSpace(cat))
		for _, pref := range profile.Categories {
			prefNorm := strings.ToLower(strings.TrimSpace(pref))
			if prefNorm == "" || catNorm == "" {
				continue
			}
			if strings.Contains(catNorm, prefNorm) || strings.Contains(prefNorm, catNorm) {
				return 1.0, fmt.Sprintf("%s (matches preferred)", cat)
			}
		}
	}
	return 0, fmt.Sprintf("%s (not in preferred list)", listing.Categories[0])
}

// skillScore is the fraction of wanted skills present in the listing's
// skill set. Zero wanted skills is vacuously satisfied at 1.0.
func skillScore(listingSkills, wanted []string, label string) (float64, string) {
	if len(wanted) == 0 {
		return 1.0, fmt.Sprintf("no %s skills configured", label)
	}

	have := make(map[string]bool, len(listingSkills))
	for _, s := range listingSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var matched []string
	for _, w := range wanted {
		if have[strings.ToLower(strings.TrimSpace(w))] {
			matched = append(matched, w)
		}
	}

	score := float64(len(matched)) / float64(len(wanted))
	detail := fmt.Sprintf("%d/%d found", len(matched), len(wanted))
	if len(matched) > 0 {
		shown := matched
		if len(shown) > 3 {
			shown = shown[:3]
		}
		detail += ": " + strings.Join(shown, ", ")
		if len(matched) > 3 {
			detail += fmt.Sprintf(" (+%d more)", len(matched)-3)
		}
	}
	return score, detail
}

// budgetFit scores 1.0 inside the configured bounds, 0.5 inside the
// flexibility band, 0.0 outside it. Unknown job type or missing price is
// neutral 0.5; missing pricing data is never penalized.
func budgetFit(listing *types.Listing, profile *types.Profile) (float64, string) {
	flexLow := profile.Budget.FlexibilityLow
	if flexLow == 0 {
		flexLow = 0.8
	}
	flexHigh := profile.Budget.FlexibilityHigh
	if flexHigh == 0 {
		flexHigh = 1.5
	}

	switch listing.JobType {
	case types.JobTypeFixed:
		if listing.FixedPrice == nil {
			return 0.5, "fixed price (amount not specified)"
		}
		price := *listing.FixedPrice
		min, max := profile.Budget.FixedMin, profile.Budget.FixedMax
		switch {
		case price >= min && price <= max:
			return 1.0, fmt.Sprintf("$%.0f fixed (within $%.0f-$%.0f range)", price, min, max)
		case price >= min*flexLow && price < min:
			return 0.5, fmt.Sprintf("$%.0f fixed (near target range)", price)
		case price > max && price <= max*flexHigh:
			return 0.5, fmt.Sprintf("$%.0f fixed (near target range)", price)
		default:
			return 0, fmt.Sprintf("$%.0f fixed (outside range)", price)
		}

	case types.JobTypeHourly:
		if listing.HourlyRateMin == nil {
			return 0.5, "hourly (rate not specified)"
		}
		rate := *listing.HourlyRateMin
		min := profile.Budget.HourlyMin
		switch {
		case rate >= min:
			return 1.0, fmt.Sprintf("$%.0f/hr (meets $%.0f/hr minimum)", rate, min)
		case rate >= min*flexLow:
			return 0.5, fmt.Sprintf("$%.0f/hr (below target)", rate)
		default:
			return 0, fmt.Sprintf("$%.0f/hr (too low)", rate)
		}

	default:
		return 0.5, "unknown job type (neutral)"
	}
}

// clientQuality combines the verified-payment flag with parsed spend and
// rating signals. Unavailable signals drop out and their weight is
// redistributed proportionally among the rest, so a listing with null
// client fields is scored on whatever is actually there.
func clientQuality(listing *types.Listing, profile *types.Profile) (float64, string) {
	minSpend := profile.ClientCriteria.MinTotalSpent
	if minSpend == 0 {
		minSpend = 1000
	}

	scores := []float64{0}
	subWeights := []float64{verifiedSubWeight}
	if listing.PaymentVerified {
		scores[0] = 1.0
	}

	var parts []string
	if listing.PaymentVerified {
		parts = append(parts, "verified")
	}

	spent, spentOK := parseClientSpent(listing.ClientTotalSpent)
	if spentOK {
		s := spent / minSpend
		if s > 1.0 {
			s = 1.0
		}
		scores = append(scores, s)
		subWeights = append(subWeights, spendSubWeight)
		switch {
		case spent >= 1_000_000:
			parts = append(parts, fmt.Sprintf("$%.1fM+ spent", spent/1_000_000))
		case spent >= 1_000:
			parts = append(parts, fmt.Sprintf("$%.0fK+ spent", spent/1_000))
		default:
			parts = append(parts, fmt.Sprintf("$%.0f+ spent", spent))
		}
	}

	rating, ratingOK := parseClientRating(listing.ClientRating)
	if ratingOK {
		r := rating / 5.0
		if r > 1.0 {
			r = 1.0
		}
		scores = append(scores, r)
		subWeights = append(subWeights, ratingSubWeight)
		parts = append(parts, fmt.Sprintf("%.1f rating", rating))
	}

	totalWeight := 0.0
	for _, w := range subWeights {
		totalWeight += w
	}
	final := 0.0
	for i, s := range scores {
		final += s * (subWeights[i] / totalWeight)
	}

	detail := "no client data"
	if len(parts) > 0 {
		detail = strings.Join(parts, ", ")
	}
	return final, detail
}
