package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenloai/jobscout/internal/types"
)

func ptr(v float64) *float64 { return &v }

func testProfile() *types.Profile {
	return &types.Profile{
		Categories:        []string{"Automation / Scraping / Workflow", "RAG / Document AI / Knowledge Base"},
		RequiredSkills:    []string{"Python", "Web Scraping"},
		NiceToHaveSkills:  []string{"Playwright"},
		Budget:            types.Budget{HourlyMin: 50, FixedMin: 500, FixedMax: 5000, FlexibilityLow: 0.8, FlexibilityHigh: 1.5},
		ClientCriteria:    types.ClientCriteria{MinTotalSpent: 1000, MinRating: 4.5},
		ExclusionKeywords: []string{"crypto", "gambling"},
		Weights:           types.DefaultWeights(),
		Threshold:         70,
	}
}

func reasonFor(t *testing.T, result types.MatchResult, criterion string) types.MatchReason {
	t.Helper()
	for _, r := range result.Reasons {
		if r.Criterion == criterion {
			return r
		}
	}
	t.Fatalf("no reason for criterion %q", criterion)
	return types.MatchReason{}
}

func TestScore_StrongListing(t *testing.T) {
	listing := &types.Listing{
		Title:            "Build a web scraping pipeline",
		Description:      "Automated data collection from several sites.",
		JobType:          types.JobTypeHourly,
		HourlyRateMin:    ptr(60.0),
		Skills:           []string{"Python", "Web Scraping", "PostgreSQL"},
		PaymentVerified:  true,
		ClientTotalSpent: "$50K+",
		ClientRating:     "4.9 of 5",
		Categories:       []string{"Automation / Scraping / Workflow"},
		Classified:       true,
	}

	result := Score(listing, testProfile())

	// 30 (category) + 25 (required) + 0 (nice-to-have missing) + 20
	// (budget) + 14.91 (client: 0.4 + 0.3 + 0.3*0.98)
	assert.InDelta(t, 89.91, result.Score, 0.01)
	require.Len(t, result.Reasons, 5)
	assert.Equal(t, 0.0, reasonFor(t, result, CriterionNiceToHaveSkills).Score)
}

func TestScore_ClientQualityOnly(t *testing.T) {
	listing := &types.Listing{
		Title:            "Design a logo",
		JobType:          types.JobTypeFixed,
		FixedPrice:       ptr(100.0),
		PaymentVerified:  false,
		ClientTotalSpent: "$5K+",
		ClientRating:     "1.3 of 5",
		Classified:       true,
	}

	result := Score(listing, testProfile())

	// Everything is 0 except client quality:
	// 0*0.4 + 1.0*0.3 + 0.26*0.3 = 0.378, times weight 15.
	assert.InDelta(t, 5.67, result.Score, 0.01)
}

func TestScore_ExclusionShortCircuits(t *testing.T) {
	listing := &types.Listing{
		Title:       "Crypto trading bot",
		Description: "Build an automated trader.",
		Skills:      []string{"Python", "Web Scraping"},
	}

	result := Score(listing, testProfile())

	assert.Equal(t, 0.0, result.Score)
	require.Len(t, result.Reasons, 1)
	assert.Equal(t, CriterionExclusion, result.Reasons[0].Criterion)
	assert.Contains(t, result.Reasons[0].Detail, "crypto")
}

func TestScore_ExclusionIgnoresSkillTags(t *testing.T) {
	listing := &types.Listing{
		Title:      "Automation pipeline",
		Skills:     []string{"crypto"},
		Categories: []string{"Automation / Scraping / Workflow"},
	}

	result := Score(listing, testProfile())

	assert.Greater(t, result.Score, 0.0)
	require.Len(t, result.Reasons, 5)
}

func TestScore_AllZeroWeights(t *testing.T) {
	profile := testProfile()
	profile.Weights = types.Weights{}

	listing := &types.Listing{
		Title:      "Great automation job",
		Categories: []string{"Automation / Scraping / Workflow"},
		Skills:     []string{"Python", "Web Scraping", "Playwright"},
	}

	result := Score(listing, profile)
	assert.Equal(t, 0.0, result.Score)
}

func TestScore_WeightsNormalized(t *testing.T) {
	listing := &types.Listing{
		Title:            "Scraping pipeline",
		JobType:          types.JobTypeHourly,
		HourlyRateMin:    ptr(60.0),
		Skills:           []string{"Python", "Web Scraping", "Playwright"},
		PaymentVerified:  true,
		ClientTotalSpent: "$10K+",
		ClientRating:     "5.0 of 5",
		Categories:       []string{"Automation / Scraping / Workflow"},
	}

	base := Score(listing, testProfile())

	doubled := testProfile()
	doubled.Weights = types.Weights{Category: 60, RequiredSkills: 50, NiceToHaveSkills: 20, BudgetFit: 40, ClientQuality: 30}
	scaled := Score(listing, doubled)

	assert.InDelta(t, base.Score, scaled.Score, 0.001)
}

func TestScore_MissingFieldsNeverError(t *testing.T) {
	result := Score(&types.Listing{}, testProfile())

	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 100.0)
	require.Len(t, result.Reasons, 5)
	assert.Equal(t, "no category assigned", reasonFor(t, result, CriterionCategory).Detail)
}

func TestSkillScore_VacuousWhenNoneConfigured(t *testing.T) {
	score, detail := skillScore([]string{"Figma"}, nil, "required")

	assert.Equal(t, 1.0, score)
	assert.Contains(t, detail, "no required skills configured")
}

func TestSkillScore_PartialMatch(t *testing.T) {
	score, detail := skillScore(
		[]string{"python", "  Web Scraping  "},
		[]string{"Python", "Web Scraping", "Docker", "AWS"},
		"required",
	)

	assert.InDelta(t, 0.5, score, 0.001)
	assert.Contains(t, detail, "2/4 found")
}

func TestCategoryScore_SubstringContainment(t *testing.T) {
	profile := testProfile()
	profile.Categories = []string{"automation"}

	listing := &types.Listing{Categories: []string{"Automation / Scraping / Workflow"}}
	score, _ := categoryScore(listing, profile)
	assert.Equal(t, 1.0, score)

	listing = &types.Listing{Categories: []string{"Mobile App Development"}}
	score, detail := categoryScore(listing, profile)
	assert.Equal(t, 0.0, score)
	assert.Contains(t, detail, "not in preferred list")
}

func TestBudgetFit_FixedPrice(t *testing.T) {
	profile := testProfile()

	cases := []struct {
		name  string
		price float64
		want  float64
	}{
		{"within range", 2000, 1.0},
		{"at lower bound", 500, 1.0},
		{"at upper bound", 5000, 1.0},
		{"flexibility band below", 450, 0.5},
		{"flexibility band above", 7000, 0.5},
		{"too low", 300, 0.0},
		{"too high", 8000, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := &types.Listing{JobType: types.JobTypeFixed, FixedPrice: ptr(tc.price)}
			score, _ := budgetFit(listing, profile)
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestBudgetFit_Hourly(t *testing.T) {
	profile := testProfile()

	cases := []struct {
		name string
		rate float64
		want float64
	}{
		{"meets minimum", 50, 1.0},
		{"above minimum", 80, 1.0},
		{"below target", 45, 0.5},
		{"too low", 30, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := &types.Listing{JobType: types.JobTypeHourly, HourlyRateMin: ptr(tc.rate)}
			score, _ := budgetFit(listing, profile)
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestBudgetFit_MissingDataIsNeutral(t *testing.T) {
	profile := testProfile()

	score, _ := budgetFit(&types.Listing{JobType: types.JobTypeFixed}, profile)
	assert.Equal(t, 0.5, score)

	score, _ = budgetFit(&types.Listing{JobType: types.JobTypeHourly}, profile)
	assert.Equal(t, 0.5, score)

	score, detail := budgetFit(&types.Listing{}, profile)
	assert.Equal(t, 0.5, score)
	assert.Contains(t, detail, "unknown job type")
}

func TestClientQuality_RedistributesMissingSignals(t *testing.T) {
	profile := testProfile()

	// Verified with no spend or rating text: the verified signal carries
	// the full weight.
	score, _ := clientQuality(&types.Listing{PaymentVerified: true}, profile)
	assert.InDelta(t, 1.0, score, 0.001)

	// Verified plus a rating, no spend: weights 0.4 and 0.3 renormalize
	// to 4/7 and 3/7.
	score, _ = clientQuality(&types.Listing{
		PaymentVerified: true,
		ClientRating:    "4.0 of 5",
	}, profile)
	assert.InDelta(t, (0.4+0.3*0.8)/0.7, score, 0.001)
}

func TestClientQuality_NoData(t *testing.T) {
	score, detail := clientQuality(&types.Listing{}, testProfile())

	assert.Equal(t, 0.0, score)
	assert.Equal(t, "no client data", detail)
}

func TestClientQuality_SpendCappedAtMinimum(t *testing.T) {
	profile := testProfile()

	high, _ := clientQuality(&types.Listing{ClientTotalSpent: "$1M+"}, profile)
	atMin, _ := clientQuality(&types.Listing{ClientTotalSpent: "$1K+"}, profile)

	assert.InDelta(t, high, atMin, 0.001)
}

func TestRank_FiltersAndSorts(t *testing.T) {
	profile := testProfile()
	profile.Threshold = 50

	strong := types.Listing{
		UID:              "strong",
		Title:            "Scraping pipeline",
		JobType:          types.JobTypeHourly,
		HourlyRateMin:    ptr(60.0),
		Skills:           []string{"Python", "Web Scraping", "Playwright"},
		PaymentVerified:  true,
		ClientTotalSpent: "$50K+",
		ClientRating:     "4.9 of 5",
		Categories:       []string{"Automation / Scraping / Workflow"},
	}
	middling := types.Listing{
		UID:           "middling",
		Title:         "Scraper maintenance",
		JobType:       types.JobTypeHourly,
		HourlyRateMin: ptr(60.0),
		Skills:        []string{"Python", "Web Scraping"},
		Categories:    []string{"Automation / Scraping / Workflow"},
	}
	weak := types.Listing{
		UID:   "weak",
		Title: "Logo design",
	}

	ranked := Rank([]types.Listing{weak, middling, strong}, profile)

	require.Len(t, ranked, 2)
	assert.Equal(t, "strong", ranked[0].Listing.UID)
	assert.Equal(t, "middling", ranked[1].Listing.UID)
}

func TestRank_DropsZeroScoresEvenAtZeroThreshold(t *testing.T) {
	profile := testProfile()
	profile.Threshold = 0

	excluded := types.Listing{UID: "excluded", Title: "Crypto bot"}
	ranked := Rank([]types.Listing{excluded}, profile)

	assert.Empty(t, ranked)
}
