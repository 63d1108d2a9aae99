package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fenloai/jobscout/internal/matching"
	"github.com/fenloai/jobscout/internal/notify"
	"github.com/fenloai/jobscout/internal/quota"
	"github.com/fenloai/jobscout/internal/types"
)

// classifyLimit caps how many backlogged listings one run classifies.
const classifyLimit = 200

// healthWriteTimeout bounds the deferred health write so a dead
// database cannot hang shutdown.
const healthWriteTimeout = 10 * time.Second

// Runner wires the five stages together. Every field except Lock and
// Notifier is required.
type Runner struct {
	Store      Store
	Scraper    Scraper
	Classifier Classifier
	Generator  Generator
	Notifier   Notifier

	Profile      *types.Profile
	Lock         *FileLock
	DashboardURL string
	// DryRun runs discovery and matching but skips everything that
	// spends model quota or sends mail.
	DryRun bool
	Log    *zap.Logger
}

// Run executes one pipeline invocation. Once the lock is held the
// health record is written on every path; callers get it back
// alongside any terminal error.
func (r *Runner) Run(ctx context.Context) (*types.RunHealth, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	if r.Lock != nil {
		if err := r.Lock.Acquire(); err != nil {
			return nil, err
		}
		defer r.Lock.Release()
	}

	health := &types.RunHealth{
		RunID:     uuid.NewString(),
		Status:    types.RunSuccess,
		StartedAt: time.Now(),
	}

	defer func() {
		health.DurationSeconds = time.Since(health.StartedAt).Seconds()
		// The run context may already be cancelled; the health record
		// must land regardless.
		wctx, cancel := context.WithTimeout(context.Background(), healthWriteTimeout)
		defer cancel()
		if err := r.Store.UpsertRunHealth(wctx, health); err != nil {
			log.Error("failed to write run health", zap.Error(err))
		}
	}()

	log.Info("pipeline run started",
		zap.String("run_id", health.RunID),
		zap.Bool("dry_run", r.DryRun))

	if err := r.runStages(ctx, health, log); err != nil {
		health.Status = types.RunFailure
		health.Error = err.Error()
		log.Error("pipeline run failed", zap.Error(err))
		return health, err
	}

	log.Info("pipeline run finished",
		zap.String("run_id", health.RunID),
		zap.String("status", string(health.Status)),
		zap.Int("new", health.ListingsNew),
		zap.Int("matched", health.ListingsMatched),
		zap.Int("proposals", health.ProposalsGenerated))
	return health, nil
}

func (r *Runner) runStages(ctx context.Context, health *types.RunHealth, log *zap.Logger) error {
	newUIDs, err := r.stageDiscover(ctx, health, log)
	if err != nil {
		return fmt.Errorf("discover stage: %w", err)
	}
	health.StagesCompleted = append(health.StagesCompleted, types.StageDiscover)

	if len(newUIDs) == 0 {
		log.Info("no new listings, stopping early")
		return nil
	}

	r.stageClassify(ctx, health, log)
	health.StagesCompleted = append(health.StagesCompleted, types.StageClassify)

	ranked, err := r.stageMatch(ctx, health, newUIDs, log)
	if err != nil {
		return fmt.Errorf("match stage: %w", err)
	}
	health.StagesCompleted = append(health.StagesCompleted, types.StageMatch)

	if len(ranked) == 0 {
		log.Info("no listings matched the profile")
		return nil
	}

	items := r.stageGenerate(ctx, health, ranked, log)
	health.StagesCompleted = append(health.StagesCompleted, types.StageGenerate)

	// A cap-exhausted run sends an empty digest: silence here would be
	// indistinguishable from a run where nothing matched.
	if !r.DryRun && r.Notifier != nil && (health.ProposalsGenerated > 0 || health.QuotaExhausted) {
		digest := notify.NewDigest(*health, items, r.DashboardURL)
		if err := r.Notifier.Send(digest); err != nil {
			r.downgrade(health, fmt.Sprintf("notify stage: %v", err))
			log.Warn("notification failed", zap.Error(err))
		} else {
			health.StagesCompleted = append(health.StagesCompleted, types.StageNotify)
		}
	}
	return nil
}

// stageDiscover scrapes every configured keyword and persists what it
// finds, returning the UIDs new to the database.
func (r *Runner) stageDiscover(ctx context.Context, health *types.RunHealth, log *zap.Logger) ([]string, error) {
	known, err := r.Store.KnownUIDs(ctx)
	if err != nil {
		return nil, err
	}

	listings, err := r.Scraper.Discover(ctx, r.Profile.SearchKeywords, known)
	if err != nil {
		return nil, err
	}
	health.ListingsScraped = len(listings)
	if len(listings) == 0 {
		return nil, nil
	}

	inserted, err := r.Store.UpsertListings(ctx, listings)
	if err != nil {
		return nil, err
	}
	health.ListingsNew = inserted
	log.Info("discovery complete",
		zap.Int("scraped", len(listings)),
		zap.Int("new", inserted))

	uids := make([]string, 0, len(listings))
	for _, l := range listings {
		uids = append(uids, l.UID)
	}
	return uids, nil
}

// stageClassify enriches the unclassified backlog. Failures here
// downgrade the run but never stop it: an unclassified listing simply
// scores without category evidence and is retried next run.
func (r *Runner) stageClassify(ctx context.Context, health *types.RunHealth, log *zap.Logger) {
	if r.DryRun {
		log.Info("dry run, skipping classification")
		return
	}

	pending, err := r.Store.ListUnclassified(ctx, classifyLimit)
	if err != nil {
		r.downgrade(health, fmt.Sprintf("classify stage: %v", err))
		log.Warn("failed to load unclassified listings", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	failures := 0
	for _, res := range r.Classifier.Classify(ctx, pending) {
		if res.Err != nil {
			failures++
			continue
		}
		if err := r.Store.SaveClassification(ctx, res.UID, res.Categories, res.KeyTools, res.Summary); err != nil {
			log.Warn("failed to save classification",
				zap.String("uid", res.UID),
				zap.Error(err))
			failures++
			continue
		}
		health.ListingsClassified++
	}
	if failures > 0 {
		r.downgrade(health, fmt.Sprintf("classify stage: %d listings failed", failures))
	}
	log.Info("classification complete",
		zap.Int("classified", health.ListingsClassified),
		zap.Int("failed", failures))
}

// stageMatch re-reads this run's new listings (now enriched) and scores
// them against the profile.
func (r *Runner) stageMatch(ctx context.Context, health *types.RunHealth, newUIDs []string, log *zap.Logger) ([]matching.Ranked, error) {
	fresh, err := r.Store.ListingsByUIDs(ctx, newUIDs)
	if err != nil {
		return nil, err
	}

	ranked := matching.Rank(fresh, r.Profile)
	health.ListingsMatched = len(ranked)
	log.Info("matching complete",
		zap.Int("candidates", len(fresh)),
		zap.Int("matched", len(ranked)),
		zap.Float64("threshold", r.Profile.Threshold))

	for i, m := range ranked {
		if i >= 5 {
			break
		}
		log.Info("top match",
			zap.Float64("score", m.Result.Score),
			zap.String("title", m.Listing.Title))
	}
	return ranked, nil
}

// stageGenerate writes proposals for matched listings, best score
// first, until the daily cap is hit. Failed generations are persisted
// too so the cap counts spent quota, not just successes.
func (r *Runner) stageGenerate(ctx context.Context, health *types.RunHealth, ranked []matching.Ranked, log *zap.Logger) []notify.Item {
	if r.DryRun {
		for _, m := range ranked {
			log.Info("dry run, would generate proposal",
				zap.Float64("score", m.Result.Score),
				zap.String("title", m.Listing.Title))
		}
		return nil
	}

	var items []notify.Item
	for i := range ranked {
		m := &ranked[i]

		count, err := r.Store.CountProposalsToday(ctx)
		if err != nil {
			r.downgrade(health, fmt.Sprintf("generate stage: %v", err))
			log.Warn("failed to count today's proposals", zap.Error(err))
			break
		}
		status := quota.Check(count, r.Profile.MaxDailyProposals)
		if status.Exceeded {
			health.QuotaExhausted = true
			log.Info("daily proposal cap reached, stopping generation",
				zap.Int("used", status.Used),
				zap.Int("limit", status.Limit))
			break
		}
		if status.Warning {
			log.Warn("approaching daily proposal cap",
				zap.Int("used", status.Used),
				zap.Int("remaining", status.Remaining))
		}

		exists, err := r.Store.ActiveProposalExists(ctx, m.Listing.UID)
		if err != nil {
			r.downgrade(health, fmt.Sprintf("generate stage: %v", err))
			log.Warn("failed to check active proposal", zap.Error(err))
			continue
		}
		if exists {
			log.Info("active proposal exists, skipping",
				zap.String("uid", m.Listing.UID))
			continue
		}

		text, attempts, err := r.Generator.Generate(ctx, &m.Listing, m.Result)
		p := types.Proposal{
			ListingUID:   m.Listing.UID,
			MatchScore:   m.Result.Score,
			MatchReasons: m.Result.Reasons,
			GeneratedAt:  time.Now(),
		}
		if err != nil {
			p.Status = types.StatusFailed
			p.FailureReason = err.Error()
			if _, insErr := r.Store.InsertProposal(ctx, &p); insErr != nil {
				log.Error("failed to persist failed proposal",
					zap.String("uid", m.Listing.UID),
					zap.Error(insErr))
			}
			health.ProposalsFailed++
			log.Warn("proposal generation failed",
				zap.String("uid", m.Listing.UID),
				zap.Int("attempts", attempts),
				zap.Error(err))
			continue
		}

		p.Status = types.StatusPendingReview
		p.Text = text
		id, err := r.Store.InsertProposal(ctx, &p)
		if err != nil {
			r.downgrade(health, fmt.Sprintf("generate stage: %v", err))
			log.Error("failed to persist proposal",
				zap.String("uid", m.Listing.UID),
				zap.Error(err))
			continue
		}
		p.ID = id
		health.ProposalsGenerated++
		items = append(items, notify.Item{Proposal: p, Listing: m.Listing})
		log.Info("proposal generated",
			zap.String("uid", m.Listing.UID),
			zap.Float64("score", m.Result.Score),
			zap.Int("attempts", attempts))
	}

	if health.ProposalsFailed > 0 {
		msg := fmt.Sprintf("generate stage: %d proposals failed", health.ProposalsFailed)
		if health.ProposalsGenerated == 0 {
			health.Status = types.RunFailure
			if health.Error == "" {
				health.Error = msg
			}
		} else {
			r.downgrade(health, msg)
		}
	}
	return items
}

// downgrade marks the run partially failed without stopping it. The
// first recorded error wins; a later failure must not erase it.
func (r *Runner) downgrade(health *types.RunHealth, msg string) {
	if health.Status == types.RunSuccess {
		health.Status = types.RunPartialFailure
	}
	if health.Error == "" {
		health.Error = msg
	}
}
