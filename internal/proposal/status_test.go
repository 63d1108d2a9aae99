package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenloai/jobscout/internal/types"
)

func TestValidateTransition_ReviewFlow(t *testing.T) {
	require.NoError(t, ValidateTransition(types.StatusPendingReview, types.StatusApproved))
	require.NoError(t, ValidateTransition(types.StatusApproved, types.StatusSubmitted))
}

func TestValidateTransition_RejectFromEitherReviewState(t *testing.T) {
	assert.NoError(t, ValidateTransition(types.StatusPendingReview, types.StatusRejected))
	assert.NoError(t, ValidateTransition(types.StatusApproved, types.StatusRejected))
}

func TestValidateTransition_ApprovalCanBeWalkedBack(t *testing.T) {
	assert.NoError(t, ValidateTransition(types.StatusApproved, types.StatusPendingReview))
}

func TestValidateTransition_TerminalStatesAreFinal(t *testing.T) {
	terminals := []types.ProposalStatus{
		types.StatusSubmitted,
		types.StatusRejected,
		types.StatusFailed,
	}
	targets := []types.ProposalStatus{
		types.StatusPendingReview,
		types.StatusApproved,
		types.StatusSubmitted,
		types.StatusRejected,
		types.StatusFailed,
	}

	for _, from := range terminals {
		for _, to := range targets {
			err := ValidateTransition(from, to)
			require.Error(t, err, "expected %s -> %s to be rejected", from, to)

			var ite *InvalidTransitionError
			require.ErrorAs(t, err, &ite)
			assert.Equal(t, from, ite.From)
			assert.Equal(t, to, ite.To)
		}
	}
}

func TestValidateTransition_NoSkippingReview(t *testing.T) {
	err := ValidateTransition(types.StatusPendingReview, types.StatusSubmitted)
	assert.Error(t, err)
}

func TestValidateTransition_SelfTransitionRejected(t *testing.T) {
	err := ValidateTransition(types.StatusPendingReview, types.StatusPendingReview)
	assert.Error(t, err)
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	assert.Error(t, ValidateTransition("draft", types.StatusApproved))
	assert.Error(t, ValidateTransition(types.StatusPendingReview, "archived"))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(types.StatusSubmitted))
	assert.True(t, IsTerminal(types.StatusRejected))
	assert.True(t, IsTerminal(types.StatusFailed))
	assert.False(t, IsTerminal(types.StatusPendingReview))
	assert.False(t, IsTerminal(types.StatusApproved))
	assert.False(t, IsTerminal("draft"))
}

func TestKnownStatus(t *testing.T) {
	assert.True(t, KnownStatus(types.StatusPendingReview))
	assert.False(t, KnownStatus("draft"))
}

func TestInitialAndFailedStatus(t *testing.T) {
	assert.Equal(t, types.StatusPendingReview, InitialStatus())
	assert.Equal(t, types.StatusFailed, FailedStatus())
}
