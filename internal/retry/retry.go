// Package retry runs a function until it succeeds, the attempt budget is
// spent, or the context ends.
package retry

import (
	"context"
	"time"
)

type Backoff int

const (
	Exponential Backoff = iota
	Linear
)

type Options struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     Backoff
	// Retryable decides whether an error is worth another attempt. Nil means
	// every error is.
	Retryable func(error) bool
	// OnRetry is called before sleeping between attempts.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Wait returns the pause after the given 1-based attempt.
func (o Options) Wait(attempt int) time.Duration {
	if o.Backoff == Linear || attempt <= 1 {
		return o.Delay
	}
	return o.Delay << (attempt - 1)
}

// Do calls fn up to MaxAttempts times and returns its last result.
func Do[T any](ctx context.Context, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		out T
		err error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err = fn(ctx)
		if err == nil {
			return out, nil
		}
		if attempt == attempts || (opts.Retryable != nil && !opts.Retryable(err)) {
			break
		}

		wait := opts.Wait(attempt)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, wait, err)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return out, err
		case <-t.C:
		}
	}
	return out, err
}
