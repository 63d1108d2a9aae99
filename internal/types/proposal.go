package types

import "time"

// ProposalStatus is the lifecycle state of a generated proposal.
// Transition rules live in the proposal package.
type ProposalStatus string

// Proposal statuses. PendingReview is the initial status of every
// successfully generated proposal; Failed is the initial status of a
// proposal whose generation exhausted its retries.
const (
	StatusPendingReview ProposalStatus = "pending_review"
	StatusApproved      ProposalStatus = "approved"
	StatusSubmitted     ProposalStatus = "submitted"
	StatusRejected      ProposalStatus = "rejected"
	StatusFailed        ProposalStatus = "failed"
)

// Proposal is a generated artifact tied to one listing at a point in time.
// Regeneration creates a new record rather than mutating an old one; at
// most one record per listing may be in a non-terminal state at a time.
type Proposal struct {
	ID            int64          `json:"id"`
	ListingUID    string         `json:"listing_uid"`
	Text          string         `json:"text"`
	EditedText    string         `json:"edited_text,omitempty"`
	MatchScore    float64        `json:"match_score"`
	MatchReasons  []MatchReason  `json:"match_reasons,omitempty"`
	Status        ProposalStatus `json:"status"`
	FailureReason string         `json:"failure_reason,omitempty"`
	GeneratedAt   time.Time      `json:"generated_at"`
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`
	SubmittedAt   *time.Time     `json:"submitted_at,omitempty"`
}
