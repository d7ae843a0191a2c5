// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry executes fallible operations with bounded retries and
// exponential backoff. Which failures count as retryable is supplied by the
// caller, so the same policy serves HTTP 429s, connection resets, and
// timeouts alike.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// Policy configures retry behavior. A Policy is read-only configuration and
// may be shared across concurrent calls.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// Multiplier scales the delay after each attempt (2.0 doubles it).
	Multiplier float64

	// MaxDelay caps the inter-attempt delay.
	MaxDelay time.Duration

	// Retryable reports whether an error is worth retrying. A nil predicate
	// retries nothing, so permanent failures propagate immediately.
	Retryable func(error) bool
}

// delay returns the backoff before retry number attempt (0-based),
// min(BaseDelay * Multiplier^attempt, MaxDelay).
func (p Policy) delay(attempt int) time.Duration {
	d := time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// sleep waits for d or until ctx is cancelled. Tests substitute it to avoid
// real sleeps.
var sleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do invokes op until it succeeds, fails with a non-retryable error, or the
// attempt budget is exhausted. The error of the final attempt is returned
// as-is so callers keep its diagnostic detail; exhaustion is never reported
// as a generic marker. If ctx is cancelled during a backoff wait, the
// context error is returned. A nil logger falls back to log.Default().
func Do(ctx context.Context, p Policy, logger *log.Logger, op func(context.Context) error) error {
	if logger == nil {
		logger = log.Default()
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts-1 {
			break
		}

		d := p.delay(attempt)
		logger.Warn("request failed, retrying",
			"attempt", attempt+1, "max_attempts", attempts, "delay", d, "error", lastErr)
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}

	logger.Error("request failed after all retries", "error", lastErr)
	return lastErr
}
