package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fenloai/jobscout/internal/types"
)

var validate = validator.New()

// preferencesFile mirrors the on-disk YAML layout: everything under a
// top-level "preferences" key.
type preferencesFile struct {
	Preferences types.Profile `yaml:"preferences"`
}

// LoadPreferences reads and validates the preference profile from a YAML
// file. A malformed profile (missing categories, threshold out of range)
// is fatal: the pipeline must not start without a usable profile.
func LoadPreferences(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences file %s: %w", path, err)
	}

	var file preferencesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preferences YAML: %w", err)
	}

	profile := file.Preferences
	applyProfileDefaults(&profile)

	if err := validate.Struct(&profile); err != nil {
		return nil, fmt.Errorf("invalid preference profile: %w", err)
	}
	return &profile, nil
}

// applyProfileDefaults fills the documented defaults for anything the
// operator left out. An entirely absent weights block (all five zero)
// gets the 30/25/10/20/15 defaults; a partially filled block is taken
// as-is and normalized by the scoring engine.
func applyProfileDefaults(p *types.Profile) {
	if p.Weights == (types.Weights{}) {
		p.Weights = types.DefaultWeights()
	}
	if p.Threshold == 0 {
		p.Threshold = 70
	}
	if p.MaxDailyProposals == 0 {
		p.MaxDailyProposals = 20
	}
	if p.Budget.FlexibilityLow == 0 {
		p.Budget.FlexibilityLow = 0.8
	}
	if p.Budget.FlexibilityHigh == 0 {
		p.Budget.FlexibilityHigh = 1.5
	}
	if p.ClientCriteria.MinTotalSpent == 0 {
		p.ClientCriteria.MinTotalSpent = 1000
	}
	if p.ClientCriteria.MinRating == 0 {
		p.ClientCriteria.MinRating = 4.5
	}
}
