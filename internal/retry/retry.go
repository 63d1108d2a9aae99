// Package retry wraps a single external call with bounded retries and
// fixed backoff. Failures are classified as retryable or terminal;
// terminal failures propagate after the first attempt without further
// retries.
package retry

import (
	"context"
	"time"
)

// Class is the retry classification of a failure.
type Class int

// Failure classes. Timeouts, transient connection failures, and
// malformed responses are retryable; missing credentials and explicit
// auth rejections are terminal.
const (
	ClassRetryable Class = iota
	ClassTerminal
)

// Classifier decides whether an error is worth retrying.
type Classifier func(error) Class

// Policy controls how an operation is retried. The zero delay slice means
// no retries at all. Sleep is injectable so tests run without waiting.
type Policy struct {
	// Delays between consecutive attempts: Delays[i] is slept after
	// attempt i+1 fails. The last delay repeats if attempts outnumber it.
	Delays   []time.Duration
	Attempts int
	Classify Classifier
	Sleep    func(ctx context.Context, d time.Duration) error
}

// Default returns the standard policy: 3 attempts with 5s/15s/60s delays,
// everything retryable unless the classifier says otherwise.
func Default(classify Classifier) *Policy {
	if classify == nil {
		classify = func(error) Class { return ClassRetryable }
	}
	return &Policy{
		Delays:   []time.Duration{5 * time.Second, 15 * time.Second, 60 * time.Second},
		Attempts: 3,
		Classify: classify,
		Sleep:    sleepCtx,
	}
}

// Result reports what Do actually did.
type Result struct {
	Attempts int
}

// Do runs op until it succeeds, a terminal failure is hit, the attempt
// budget is exhausted, or the context is cancelled. The last error is
// returned alongside the attempt count.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context) error) (Result, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{Attempts: attempt - 1}, err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return Result{Attempts: attempt}, nil
		}

		if p.Classify != nil && p.Classify(lastErr) == ClassTerminal {
			return Result{Attempts: attempt}, lastErr
		}
		if attempt == attempts {
			break
		}

		if err := sleep(ctx, p.delayFor(attempt)); err != nil {
			return Result{Attempts: attempt}, err
		}
	}
	return Result{Attempts: attempts}, lastErr
}

// delayFor returns the backoff after the given 1-based attempt, reusing
// the last configured delay when attempts outnumber delays.
func (p *Policy) delayFor(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(p.Delays) {
		idx = len(p.Delays) - 1
	}
	return p.Delays[idx]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
