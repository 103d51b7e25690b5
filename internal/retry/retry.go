package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Backoff selects the wait strategy between attempts.
type Backoff string

const (
	BackoffLinear            Backoff = "linear"
	BackoffExponential       Backoff = "exponential"
	BackoffExponentialJitter Backoff = "exponential_jitter"
)

// Policy configures retry behavior for backend invocations.
type Policy struct {
	MaxAttempts int
	Backoff     Backoff
}

// Execute runs fn under policy. Each failed attempt except the last waits
// out the backoff; context cancellation during the wait ends the loop.
// onRetry, when non-nil, fires once per follow-up attempt.
func Execute(ctx context.Context, policy Policy, onRetry func(), fn func(context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		if i > 1 && onRetry != nil {
			onRetry()
		}
		if err := fn(ctx); err != nil {
			var pe permanentError
			if errors.As(err, &pe) {
				return pe.cause
			}
			lastErr = err
			if i == attempts {
				return lastErr
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(BackoffDuration(policy.Backoff, i)):
			}
			continue
		}
		return nil
	}
	return lastErr
}

// BackoffDuration returns the wait before the attempt that follows attempt n.
func BackoffDuration(strategy Backoff, attempt int) time.Duration {
	base := 100 * time.Millisecond
	switch strategy {
	case BackoffExponential:
		return base * time.Duration(1<<uint(attempt-1))
	case BackoffExponentialJitter:
		exp := base * time.Duration(1<<uint(attempt-1))
		jitter := time.Duration(rand.Int63n(int64(base)))
		return exp + jitter
	default:
		return base * time.Duration(attempt)
	}
}
