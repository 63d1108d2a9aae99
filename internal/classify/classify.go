// Package classify enriches scraped listings with categories, key
// tools, and a one-line summary using a language model, validating the
// model's JSON output against a schema before trusting it.
package classify

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fenloai/jobscout/internal/llm"
	"github.com/fenloai/jobscout/internal/retry"
	"github.com/fenloai/jobscout/internal/schemas"
	"github.com/fenloai/jobscout/internal/types"
)

//go:embed classification.schema.json
var classificationSchema string

// Categories a listing can be placed into. Kept in one place so the
// prompt and any downstream filtering agree.
var Categories = []string{
	"Build AI Web App / SaaS",
	"AI Chatbot / Virtual Assistant",
	"AI Agent / Multi-Agent System",
	"RAG / Document AI / Knowledge Base",
	"AI Integration (add AI to existing app)",
	"ML Model Training / Fine-tuning",
	"Computer Vision / Image Processing",
	"NLP / Text Analysis",
	"Data Science / Analytics / BI",
	"AI Content / Video / Image Generation",
	"Automation / Scraping / Workflow",
	"Voice / Speech AI",
	"Web Development (no AI)",
	"Mobile App Development",
	"Consulting / Strategy / Advisory",
	"DevOps / MLOps / Infrastructure",
}

const (
	// batchSize is how many listings go into one model call.
	batchSize = 20
	// descriptionLimit truncates listing descriptions in the prompt.
	descriptionLimit = 400
	maxPromptSkills  = 8
)

// Result is the classifier's verdict for one listing. Err is set when
// the listing's batch failed; the listing stays unclassified and is
// retried on the next run.
type Result struct {
	UID        string
	Categories []string
	KeyTools   []string
	Summary    string
	Err        error
}

// Classifier batches listings through the model.
type Classifier struct {
	client llm.Client
	policy *retry.Policy
	log    *zap.Logger
}

// NewClassifier builds a classifier on top of an LLM client. A nil
// policy falls back to the default backoff schedule.
func NewClassifier(client llm.Client, policy *retry.Policy, log *zap.Logger) *Classifier {
	if policy == nil {
		policy = retry.Default(llm.ClassifyError)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{client: client, policy: policy, log: log}
}

// Classify runs every listing through the model in batches. A failed
// batch produces one errored Result per listing in it; other batches
// proceed.
func (c *Classifier) Classify(ctx context.Context, listings []types.Listing) []Result {
	var results []Result
	for start := 0; start < len(listings); start += batchSize {
		end := start + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[start:end]

		batchResults, err := c.classifyBatch(ctx, batch)
		if err != nil {
			c.log.Warn("classification batch failed",
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			for _, l := range batch {
				results = append(results, Result{UID: l.UID, Err: err})
			}
			continue
		}
		results = append(results, batchResults...)
	}
	return results
}

type classificationItem struct {
	UID        string   `json:"uid"`
	Categories []string `json:"categories"`
	KeyTools   []string `json:"key_tools"`
	Summary    string   `json:"summary"`
}

func (c *Classifier) classifyBatch(ctx context.Context, batch []types.Listing) ([]Result, error) {
	prompt := buildPrompt(batch)

	// Schema rejections and truncated JSON retry alongside transient
	// API errors; the model often produces valid output on a second try.
	var items []classificationItem
	if _, err := c.policy.Do(ctx, func(ctx context.Context) error {
		raw, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
		if err != nil {
			return fmt.Errorf("failed to classify batch: %w", err)
		}

		cleaned := llm.CleanJSONBlock(raw)
		if err := schemas.ValidateJSONString(classificationSchema, cleaned); err != nil {
			return &llm.ParseError{Message: "classification output rejected", Cause: err}
		}

		items = nil
		if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
			return &llm.ParseError{Message: "failed to parse classification JSON", Cause: err}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	byUID := make(map[string]classificationItem, len(items))
	for _, item := range items {
		byUID[item.UID] = item
	}

	// The model occasionally drops or invents items; map back by UID and
	// error the listings it skipped.
	results := make([]Result, 0, len(batch))
	for _, l := range batch {
		item, ok := byUID[l.UID]
		if !ok {
			results = append(results, Result{
				UID: l.UID,
				Err: fmt.Errorf("listing %s missing from classification output", l.UID),
			})
			continue
		}
		results = append(results, Result{
			UID:        l.UID,
			Categories: item.Categories,
			KeyTools:   item.KeyTools,
			Summary:    item.Summary,
		})
	}
	return results, nil
}

func buildPrompt(batch []types.Listing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You classify freelance job listings. For each job, output JSON with:\n\n")
	fmt.Fprintf(&sb, "1. \"categories\": 1-3 categories from this list (most relevant first):\n")
	for _, cat := range Categories {
		fmt.Fprintf(&sb, "   - %s\n", cat)
	}
	sb.WriteString("\n2. \"key_tools\": 2-5 specific tools/technologies/frameworks the job needs")
	sb.WriteString(" (NOT generic terms like \"Python\" or \"AI\" — use specific ones like")
	sb.WriteString(" \"LangChain\", \"OpenAI API\", \"Next.js\", \"Pinecone\", \"FastAPI\")\n")
	sb.WriteString("\n3. \"summary\": One sentence (max 120 chars) describing what needs to be")
	sb.WriteString(" built or done. Start with a verb.\n\n")
	fmt.Fprintf(&sb, "Classify these %d jobs. Return a JSON array with %d objects, each having: uid, categories, key_tools, summary.\n",
		len(batch), len(batch))

	for i, l := range batch {
		skills := l.Skills
		if len(skills) > maxPromptSkills {
			skills = skills[:maxPromptSkills]
		}
		desc := l.Description
		if len(desc) > descriptionLimit {
			desc = desc[:descriptionLimit]
		}
		fmt.Fprintf(&sb, "\n---\n[%d] uid: %s\nTitle: %s\nSkills: %s\nDesc: %s\n",
			i, l.UID, l.Title, strings.Join(skills, ", "), desc)
	}
	sb.WriteString("---\nReturn ONLY a JSON array. No markdown fences.")
	return sb.String()
}
