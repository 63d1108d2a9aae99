package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/fenloai/jobscout/internal/retry"
)

// AuthError is a terminal failure: missing credentials or an explicit
// permission/auth rejection. Retrying cannot help.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// TransientError is a retryable failure: timeout or connection trouble
// talking to the provider.
type TransientError struct {
	Message string
	Cause   error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transient error: %s", e.Message)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// ParseError is a malformed or unparseable model response. The model may
// well produce valid output on a retry, so it classifies as retryable.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// authMarkers are substrings of provider error messages that indicate a
// credential or permission problem when the error isn't already typed.
var authMarkers = []string{
	"api key",
	"permission denied",
	"unauthenticated",
	"401",
	"403",
}

// ClassifyError maps an error to a retry class: auth and permission
// failures are terminal, everything else (timeouts, connection failures,
// malformed responses) is retryable.
func ClassifyError(err error) retry.Class {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return retry.ClassTerminal
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return retry.ClassRetryable
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return retry.ClassTerminal
		}
	}
	return retry.ClassRetryable
}
