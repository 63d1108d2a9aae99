// Package pipeline orchestrates the discovery run: scrape, classify,
// match, generate, notify. Each stage records its outcome so the run
// health written at the end reflects exactly how far the run got.
package pipeline

import (
	"context"

	"github.com/fenloai/jobscout/internal/classify"
	"github.com/fenloai/jobscout/internal/notify"
	"github.com/fenloai/jobscout/internal/types"
)

// Scraper discovers listings not already in known.
type Scraper interface {
	Discover(ctx context.Context, keywords []string, known map[string]bool) ([]types.Listing, error)
}

// Classifier enriches listings with categories, tools, and summaries.
type Classifier interface {
	Classify(ctx context.Context, listings []types.Listing) []classify.Result
}

// Generator writes a proposal for one matched listing and reports how
// many model attempts it took.
type Generator interface {
	Generate(ctx context.Context, listing *types.Listing, match types.MatchResult) (string, int, error)
}

// Notifier delivers the end-of-run digest.
type Notifier interface {
	Send(digest *notify.Digest) error
}

// Store is the persistence surface the pipeline needs.
type Store interface {
	UpsertListings(ctx context.Context, listings []types.Listing) (int, error)
	KnownUIDs(ctx context.Context) (map[string]bool, error)
	ListUnclassified(ctx context.Context, limit int) ([]types.Listing, error)
	ListingsByUIDs(ctx context.Context, uids []string) ([]types.Listing, error)
	SaveClassification(ctx context.Context, uid string, categories, keyTools []string, summary string) error
	InsertProposal(ctx context.Context, p *types.Proposal) (int64, error)
	ActiveProposalExists(ctx context.Context, listingUID string) (bool, error)
	CountProposalsToday(ctx context.Context) (int, error)
	UpsertRunHealth(ctx context.Context, h *types.RunHealth) error
}
