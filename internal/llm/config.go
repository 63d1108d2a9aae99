// Package llm provides the Gemini client abstraction used by the
// classifier and the proposal generator, plus the error taxonomy the
// retry controller classifies against.
package llm

// ModelTier represents the complexity/capability level of a model.
type ModelTier string

const (
	// TierLite is for simple tasks: listing classification, summarization.
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: proposal generation.
	TierStandard ModelTier = "standard"
)

// Config holds the model selection per tier.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to any
// configured tier when the requested one is absent.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
