package types

// Weights holds the raw per-component weights for the scoring engine.
// They need not sum to 100; the engine normalizes before combining.
type Weights struct {
	Category         float64 `yaml:"category" json:"category"`
	RequiredSkills   float64 `yaml:"required_skills" json:"required_skills"`
	NiceToHaveSkills float64 `yaml:"nice_to_have_skills" json:"nice_to_have_skills"`
	BudgetFit        float64 `yaml:"budget_fit" json:"budget_fit"`
	ClientQuality    float64 `yaml:"client_quality" json:"client_quality"`
}

// Sum returns the raw weight total.
func (w Weights) Sum() float64 {
	return w.Category + w.RequiredSkills + w.NiceToHaveSkills + w.BudgetFit + w.ClientQuality
}

// DefaultWeights mirrors the documented defaults: 30/25/10/20/15.
func DefaultWeights() Weights {
	return Weights{
		Category:         30,
		RequiredSkills:   25,
		NiceToHaveSkills: 10,
		BudgetFit:        20,
		ClientQuality:    15,
	}
}

// Budget holds the acceptable price bounds, separate for hourly and fixed
// work. The flexibility factors define the half-credit band around the
// bounds (0.5 score when within 20% below min or 50% above max).
type Budget struct {
	HourlyMin       float64 `yaml:"hourly_min" json:"hourly_min"`
	FixedMin        float64 `yaml:"fixed_min" json:"fixed_min"`
	FixedMax        float64 `yaml:"fixed_max" json:"fixed_max"`
	FlexibilityLow  float64 `yaml:"flexibility_low" json:"flexibility_low"`
	FlexibilityHigh float64 `yaml:"flexibility_high" json:"flexibility_high"`
}

// ClientCriteria holds the client-quality minimums used to scale the
// spend and rating sub-signals.
type ClientCriteria struct {
	MinTotalSpent float64 `yaml:"min_total_spent" json:"min_total_spent"`
	MinRating     float64 `yaml:"min_rating" json:"min_rating"`
}

// Profile is the user-configured preference profile. It is loaded once at
// run start and treated as immutable for the duration of a pipeline run.
type Profile struct {
	SearchKeywords    []string       `yaml:"search_keywords" json:"search_keywords"`
	Categories        []string       `yaml:"categories" json:"categories" validate:"required,min=1"`
	RequiredSkills    []string       `yaml:"required_skills" json:"required_skills"`
	NiceToHaveSkills  []string       `yaml:"nice_to_have_skills" json:"nice_to_have_skills"`
	Budget            Budget         `yaml:"budget" json:"budget"`
	ClientCriteria    ClientCriteria `yaml:"client_criteria" json:"client_criteria"`
	ExclusionKeywords []string       `yaml:"exclusion_keywords" json:"exclusion_keywords"`
	Weights           Weights        `yaml:"weights" json:"weights"`
	Threshold         float64        `yaml:"threshold" json:"threshold" validate:"gte=0,lte=100"`
	MaxDailyProposals int            `yaml:"max_daily_proposals" json:"max_daily_proposals" validate:"gte=0"`
}
