package proposal

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fenloai/jobscout/internal/llm"
	"github.com/fenloai/jobscout/internal/logger"
	"github.com/fenloai/jobscout/internal/retry"
	"github.com/fenloai/jobscout/internal/types"
)

// Generator turns one matched listing into proposal text through the LLM,
// wrapped in the bounded-retry policy. Batch sequencing, quota checks, and
// persistence stay with the orchestrator.
type Generator struct {
	client      llm.Client
	policy      *retry.Policy
	userProfile types.UserProfile
	projects    []types.Project
	guidelines  types.Guidelines
	log         *zap.Logger
}

// NewGenerator wires a generator from the LLM client and the operator's
// pitch configuration. A nil policy gets the default 3-attempt backoff.
func NewGenerator(client llm.Client, policy *retry.Policy, userProfile types.UserProfile,
	projects []types.Project, guidelines types.Guidelines, log *zap.Logger) *Generator {
	if policy == nil {
		policy = retry.Default(llm.ClassifyError)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		client:      client,
		policy:      policy,
		userProfile: userProfile,
		projects:    projects,
		guidelines:  guidelines,
		log:         log,
	}
}

// Generate produces proposal text for one listing. The attempt count is
// returned even on failure so the orchestrator can record it in the
// failure reason.
func (g *Generator) Generate(ctx context.Context, listing *types.Listing, match types.MatchResult) (string, int, error) {
	maxProjects := g.guidelines.MaxProjects
	selected := SelectRelevantProjects(listing, g.projects, maxProjects)
	prompt := BuildPrompt(listing, match, g.userProfile, selected, g.guidelines)

	var text string
	result, err := g.policy.Do(ctx, func(ctx context.Context) error {
		out, genErr := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
		if genErr != nil {
			return genErr
		}
		out = stripFences(out)
		if strings.TrimSpace(out) == "" {
			return &llm.ParseError{Message: "empty proposal text"}
		}
		text = out
		return nil
	})
	if err != nil {
		g.log.Warn("proposal generation failed",
			zap.String("listing_uid", listing.UID),
			zap.Int("attempts", result.Attempts),
			zap.Error(err))
		return "", result.Attempts, err
	}

	g.log.Debug("proposal generated",
		zap.String("listing_uid", listing.UID),
		zap.Int("attempts", result.Attempts),
		zap.Int("chars", len(text)),
		zap.String("preview", logger.TruncateForLog(text, 120)))
	return text, result.Attempts, nil
}

// stripFences removes a stray markdown fence the model sometimes wraps
// plain text in despite instructions.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
