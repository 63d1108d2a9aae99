package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fenloai/jobscout/internal/types"
)

// UpsertRunHealth replaces the single run-health row with the outcome of
// the latest pipeline run.
func (s *Store) UpsertRunHealth(ctx context.Context, h *types.RunHealth) error {
	stages, err := json.Marshal(h.StagesCompleted)
	if err != nil {
		return fmt.Errorf("failed to marshal completed stages: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO run_health (id, run_id, status, started_at, duration_seconds,
		     listings_scraped, listings_new, listings_classified, listings_matched,
		     proposals_generated, proposals_failed, quota_exhausted, stages_completed, error_message)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		     run_id = $1, status = $2, started_at = $3, duration_seconds = $4,
		     listings_scraped = $5, listings_new = $6, listings_classified = $7,
		     listings_matched = $8, proposals_generated = $9, proposals_failed = $10,
		     quota_exhausted = $11, stages_completed = $12, error_message = $13`,
		h.RunID, string(h.Status), h.StartedAt, h.DurationSeconds,
		h.ListingsScraped, h.ListingsNew, h.ListingsClassified, h.ListingsMatched,
		h.ProposalsGenerated, h.ProposalsFailed, h.QuotaExhausted, stages, h.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert run health: %w", err)
	}
	return nil
}

// LastRunHealth returns the most recent run's health record, or nil if
// no run has completed yet.
func (s *Store) LastRunHealth(ctx context.Context) (*types.RunHealth, error) {
	var h types.RunHealth
	var status string
	var stages []byte
	err := s.pool.QueryRow(ctx,
		`SELECT run_id, status, started_at, duration_seconds,
		     listings_scraped, listings_new, listings_classified, listings_matched,
		     proposals_generated, proposals_failed, quota_exhausted, stages_completed, error_message
		 FROM run_health WHERE id = 1`,
	).Scan(
		&h.RunID, &status, &h.StartedAt, &h.DurationSeconds,
		&h.ListingsScraped, &h.ListingsNew, &h.ListingsClassified, &h.ListingsMatched,
		&h.ProposalsGenerated, &h.ProposalsFailed, &h.QuotaExhausted, &stages, &h.Error,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run health: %w", err)
	}
	h.Status = types.RunStatus(status)
	if err := json.Unmarshal(stages, &h.StagesCompleted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal completed stages: %w", err)
	}
	return &h, nil
}
