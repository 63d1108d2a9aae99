// Package proposal owns the proposal lifecycle: the status state machine,
// prompt construction, and the retry-wrapped generation call.
package proposal

import (
	"fmt"

	"github.com/fenloai/jobscout/internal/types"
)

// validTransitions enumerates every legal status edge. submitted,
// rejected, and failed are terminal; a retry after failure creates a new
// record at pending_review instead of reviving the old one.
var validTransitions = map[types.ProposalStatus][]types.ProposalStatus{
	types.StatusPendingReview: {types.StatusApproved, types.StatusRejected},
	types.StatusApproved:      {types.StatusSubmitted, types.StatusRejected, types.StatusPendingReview},
	types.StatusSubmitted:     {},
	types.StatusRejected:      {},
	types.StatusFailed:        {},
}

// InvalidTransitionError reports a rejected status change. The stored
// status is left untouched when this is returned.
type InvalidTransitionError struct {
	From types.ProposalStatus
	To   types.ProposalStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid proposal status transition: %s -> %s", e.From, e.To)
}

// InitialStatus is the status of every freshly generated proposal.
func InitialStatus() types.ProposalStatus {
	return types.StatusPendingReview
}

// FailedStatus is the status of a proposal whose generation call
// exhausted its retries.
func FailedStatus() types.ProposalStatus {
	return types.StatusFailed
}

// IsTerminal reports whether no further transition is valid from s.
func IsTerminal(s types.ProposalStatus) bool {
	targets, known := validTransitions[s]
	return known && len(targets) == 0
}

// KnownStatus reports whether s is one of the five defined statuses.
func KnownStatus(s types.ProposalStatus) bool {
	_, ok := validTransitions[s]
	return ok
}

// ValidateTransition checks a status change against the state machine,
// returning an InvalidTransitionError for any edge not explicitly
// allowed, including unknown statuses on either side.
func ValidateTransition(from, to types.ProposalStatus) error {
	targets, known := validTransitions[from]
	if !known || !KnownStatus(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	for _, t := range targets {
		if t == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}
