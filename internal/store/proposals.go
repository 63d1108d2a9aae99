package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fenloai/jobscout/internal/proposal"
	"github.com/fenloai/jobscout/internal/types"
)

// InsertProposal stores a new proposal record and returns its ID. The
// caller sets Status; everything else defaults server-side.
func (s *Store) InsertProposal(ctx context.Context, p *types.Proposal) (int64, error) {
	reasons, err := json.Marshal(p.MatchReasons)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal match reasons: %w", err)
	}

	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO proposals (listing_uid, proposal_text, match_score,
		     match_reasons, status, failure_reason, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		p.ListingUID, p.Text, p.MatchScore, reasons,
		string(p.Status), p.FailureReason, p.GeneratedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert proposal for %s: %w", p.ListingUID, err)
	}
	return id, nil
}

// ActiveProposalExists reports whether the listing already has a
// proposal in a non-terminal state. At most one is allowed at a time.
func (s *Store) ActiveProposalExists(ctx context.Context, listingUID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM proposals
		     WHERE listing_uid = $1
		       AND status IN ('pending_review', 'approved', 'submitted')
		 )`,
		listingUID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active proposal for %s: %w", listingUID, err)
	}
	return exists, nil
}

// CountProposalsToday returns how many proposals were generated since
// local midnight, counting failures toward the daily cap.
func (s *Store) CountProposalsToday(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM proposals
		 WHERE generated_at >= date_trunc('day', now())`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's proposals: %w", err)
	}
	return count, nil
}

// GetProposal fetches one proposal by ID. Returns nil if not found.
func (s *Store) GetProposal(ctx context.Context, id int64) (*types.Proposal, error) {
	rows, err := s.pool.Query(ctx, proposalColumns+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposal %d: %w", id, err)
	}
	defer rows.Close()

	proposals, err := scanProposals(rows)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		return nil, nil
	}
	return &proposals[0], nil
}

// ProposalsByStatus lists proposals in the given status, newest first.
// An empty status lists everything.
func (s *Store) ProposalsByStatus(ctx context.Context, status types.ProposalStatus) ([]types.Proposal, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = s.pool.Query(ctx, proposalColumns+` ORDER BY generated_at DESC`)
	} else {
		rows, err = s.pool.Query(ctx,
			proposalColumns+` WHERE status = $1 ORDER BY generated_at DESC`,
			string(status),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	defer rows.Close()
	return scanProposals(rows)
}

// UpdateProposalStatus moves a proposal to a new status, enforcing the
// lifecycle transition rules and stamping the review/submission times.
func (s *Store) UpdateProposalStatus(ctx context.Context, id int64, to types.ProposalStatus) error {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("proposal %d not found", id)
	}
	if err := proposal.ValidateTransition(p.Status, to); err != nil {
		return err
	}

	now := time.Now()
	var query string
	switch to {
	case types.StatusApproved, types.StatusRejected:
		query = `UPDATE proposals SET status = $1, reviewed_at = $2 WHERE id = $3`
	case types.StatusSubmitted:
		query = `UPDATE proposals SET status = $1, submitted_at = $2 WHERE id = $3`
	default:
		query = `UPDATE proposals SET status = $1, reviewed_at = $2 WHERE id = $3`
	}
	if _, err := s.pool.Exec(ctx, query, string(to), now, id); err != nil {
		return fmt.Errorf("failed to update proposal %d status: %w", id, err)
	}
	return nil
}

const proposalColumns = `SELECT id, listing_uid, proposal_text, edited_text,
	match_score, match_reasons, status, failure_reason, generated_at,
	reviewed_at, submitted_at
	FROM proposals`

func scanProposals(rows pgx.Rows) ([]types.Proposal, error) {
	var proposals []types.Proposal
	for rows.Next() {
		var p types.Proposal
		var status string
		var reasons []byte
		err := rows.Scan(
			&p.ID, &p.ListingUID, &p.Text, &p.EditedText,
			&p.MatchScore, &reasons, &status, &p.FailureReason,
			&p.GeneratedAt, &p.ReviewedAt, &p.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		p.Status = types.ProposalStatus(status)
		if err := json.Unmarshal(reasons, &p.MatchReasons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match reasons for %d: %w", p.ID, err)
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
