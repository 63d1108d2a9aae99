package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fenloai/jobscout/internal/retry"
)

func TestClassifyError_AuthIsTerminal(t *testing.T) {
	err := &AuthError{Message: "API key is required"}
	assert.Equal(t, retry.ClassTerminal, ClassifyError(err))
}

func TestClassifyError_WrappedAuthIsTerminal(t *testing.T) {
	err := fmt.Errorf("generating proposal: %w", &AuthError{Message: "rejected"})
	assert.Equal(t, retry.ClassTerminal, ClassifyError(err))
}

func TestClassifyError_TransientIsRetryable(t *testing.T) {
	err := &TransientError{Message: "connection reset"}
	assert.Equal(t, retry.ClassRetryable, ClassifyError(err))
}

func TestClassifyError_ParseIsRetryable(t *testing.T) {
	err := &ParseError{Message: "no candidates in response"}
	assert.Equal(t, retry.ClassRetryable, ClassifyError(err))
}

func TestClassifyError_DeadlineIsRetryable(t *testing.T) {
	assert.Equal(t, retry.ClassRetryable, ClassifyError(context.DeadlineExceeded))
}

func TestClassifyError_AuthMarkersInMessage(t *testing.T) {
	for _, msg := range []string{
		"googleapi: Error 403: permission denied",
		"rpc error: code = Unauthenticated desc = bad credentials",
		"invalid API key provided",
	} {
		assert.Equal(t, retry.ClassTerminal, ClassifyError(errors.New(msg)), msg)
	}
}

func TestClassifyError_UnknownDefaultsToRetryable(t *testing.T) {
	assert.Equal(t, retry.ClassRetryable, ClassifyError(errors.New("something odd")))
}

func TestErrorMessages_IncludeCause(t *testing.T) {
	cause := errors.New("boom")

	auth := &AuthError{Message: "handshake", Cause: cause}
	assert.Contains(t, auth.Error(), "handshake")
	assert.Contains(t, auth.Error(), "boom")
	assert.ErrorIs(t, auth, cause)

	transient := &TransientError{Message: "dial", Cause: cause}
	assert.ErrorIs(t, transient, cause)

	parse := &ParseError{Message: "decode", Cause: cause}
	assert.ErrorIs(t, parse, cause)
}
