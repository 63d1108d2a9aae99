package classify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenloai/jobscout/internal/llm"
	"github.com/fenloai/jobscout/internal/retry"
	"github.com/fenloai/jobscout/internal/types"
)

// noBackoff retries without delays so tests run instantly.
func noBackoff(attempts int) *retry.Policy {
	return &retry.Policy{Attempts: attempts, Classify: llm.ClassifyError}
}

type scriptedClient struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if call < len(s.errs) && s.errs[call] != nil {
		return "", s.errs[call]
	}
	if call < len(s.responses) {
		return s.responses[call], nil
	}
	return "[]", nil
}

func (s *scriptedClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.GenerateJSON(ctx, prompt, tier)
}

func (s *scriptedClient) Close() error { return nil }

func classifyListings(uids ...string) []types.Listing {
	listings := make([]types.Listing, 0, len(uids))
	for _, uid := range uids {
		listings = append(listings, types.Listing{
			UID:         uid,
			Title:       "Build a chatbot",
			Description: "RAG assistant over support docs.",
			Skills:      []string{"Python", "LangChain"},
		})
	}
	return listings
}

func TestClassify_ValidOutput(t *testing.T) {
	client := &scriptedClient{responses: []string{`[
		{"uid": "~01", "categories": ["RAG / Document AI / Knowledge Base"],
		 "key_tools": ["LangChain", "Pinecone"], "summary": "Build a RAG assistant over support docs."}
	]`}}
	c := NewClassifier(client, nil, nil)

	results := c.Classify(context.Background(), classifyListings("~01"))

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "~01", results[0].UID)
	assert.Equal(t, []string{"RAG / Document AI / Knowledge Base"}, results[0].Categories)
	assert.Equal(t, []string{"LangChain", "Pinecone"}, results[0].KeyTools)
	assert.Equal(t, "Build a RAG assistant over support docs.", results[0].Summary)
}

func TestClassify_FencedOutputAccepted(t *testing.T) {
	client := &scriptedClient{responses: []string{"```json\n[{\"uid\": \"~01\", \"categories\": [\"NLP / Text Analysis\"], \"key_tools\": [], \"summary\": \"Tag support tickets.\"}]\n```"}}
	c := NewClassifier(client, nil, nil)

	results := c.Classify(context.Background(), classifyListings("~01"))

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestClassify_ModelErrorFailsWholeBatch(t *testing.T) {
	client := &scriptedClient{errs: []error{&llm.TransientError{Message: "timeout"}}}
	c := NewClassifier(client, noBackoff(1), nil)

	results := c.Classify(context.Background(), classifyListings("~01", "~02"))

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "~01", results[0].UID)
	assert.Equal(t, "~02", results[1].UID)
}

func TestClassify_TransientErrorRetriedWithinBatch(t *testing.T) {
	client := &scriptedClient{
		errs: []error{&llm.TransientError{Message: "timeout"}},
		responses: []string{"",
			`[{"uid": "~01", "categories": ["NLP / Text Analysis"], "key_tools": [], "summary": "Tag tickets."}]`},
	}
	c := NewClassifier(client, noBackoff(3), nil)

	results := c.Classify(context.Background(), classifyListings("~01"))

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Len(t, client.prompts, 2)
}

func TestClassify_MalformedOutputRetriedWithinBatch(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`[{"uid": "~01", "categories": [], "key_tools": []}]`,
		`[{"uid": "~01", "categories": ["NLP / Text Analysis"], "key_tools": [], "summary": "Tag tickets."}]`,
	}}
	c := NewClassifier(client, noBackoff(3), nil)

	results := c.Classify(context.Background(), classifyListings("~01"))

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Len(t, client.prompts, 2)
}

func TestClassify_AuthErrorNotRetried(t *testing.T) {
	client := &scriptedClient{errs: []error{&llm.AuthError{Message: "invalid api key"}}}
	c := NewClassifier(client, noBackoff(3), nil)

	results := c.Classify(context.Background(), classifyListings("~01"))

	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Len(t, client.prompts, 1)
}

func TestClassify_SchemaRejectionFailsBatch(t *testing.T) {
	// categories must not be empty, summary is required
	client := &scriptedClient{responses: []string{`[{"uid": "~01", "categories": [], "key_tools": []}]`}}
	c := NewClassifier(client, noBackoff(1), nil)

	results := c.Classify(context.Background(), classifyListings("~01"))

	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "classification output rejected")
}

func TestClassify_MissingUIDErrorsOnlyThatListing(t *testing.T) {
	client := &scriptedClient{responses: []string{`[
		{"uid": "~01", "categories": ["NLP / Text Analysis"], "key_tools": [], "summary": "Tag tickets."}
	]`}}
	c := NewClassifier(client, nil, nil)

	results := c.Classify(context.Background(), classifyListings("~01", "~02"))

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "~02")
}

func TestClassify_BatchesLargeInput(t *testing.T) {
	uids := make([]string, batchSize+3)
	for i := range uids {
		uids[i] = "~" + strings.Repeat("0", 2) + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	client := &scriptedClient{errs: []error{&llm.TransientError{Message: "x"}, &llm.TransientError{Message: "x"}}}
	c := NewClassifier(client, noBackoff(1), nil)

	results := c.Classify(context.Background(), classifyListings(uids...))

	assert.Len(t, results, batchSize+3)
	assert.Len(t, client.prompts, 2)
}

func TestBuildPrompt_TruncatesAndCounts(t *testing.T) {
	listings := classifyListings("~01", "~02")
	listings[0].Description = strings.Repeat("y", 900)

	prompt := buildPrompt(listings)

	assert.Contains(t, prompt, "Classify these 2 jobs.")
	assert.Contains(t, prompt, "uid: ~01")
	assert.Contains(t, prompt, "uid: ~02")
	assert.NotContains(t, prompt, strings.Repeat("y", descriptionLimit+1))
	assert.Contains(t, prompt, Categories[0])
}
