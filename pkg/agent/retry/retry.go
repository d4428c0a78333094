// Package retry shields the orchestration loop from transient rate-limit
// failures with bounded, fixed-backoff retries.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scaffolder/pkg/agent/llmerrors"
	"scaffolder/pkg/logx"
)

// ErrRetriesExhausted is returned when every attempt failed with a rate-limit
// error. It is distinct from the underlying cause, which it wraps.
var ErrRetriesExhausted = errors.New("retries exhausted")

const (
	// DefaultMaxRetries bounds the number of attempts (including the first).
	DefaultMaxRetries = 5
	// DefaultWait is the fixed, non-exponential sleep between attempts.
	DefaultWait = 70 * time.Second
)

// Options configures Invoke.
type Options struct {
	// MaxRetries is the attempt budget; <=0 uses DefaultMaxRetries.
	MaxRetries int
	// Wait is the fixed sleep after a rate-limited attempt; <=0 uses DefaultWait.
	Wait time.Duration
	// OnRetry is called before each sleep with the 1-based attempt number.
	OnRetry func(attempt int)
	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Invoke attempts fn up to MaxRetries times. Only the rate-limit failure kind
// is treated as transient: the calling goroutine blocks for the fixed wait,
// then retries, consuming one attempt. Any other failure propagates
// immediately. Exhausting the budget on rate limits yields
// ErrRetriesExhausted wrapping the last cause.
func Invoke[T any](ctx context.Context, fn func(context.Context) (T, error), opts Options) (T, error) {
	var zero T

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	wait := opts.Wait
	if wait <= 0 {
		wait = DefaultWait
	}
	sleep := opts.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	logger := logx.NewLogger("retry")

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !llmerrors.IsRateLimit(err) {
			return zero, err
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}
		logger.Warn("rate limit hit (attempt %d/%d), sleeping %s", attempt, maxRetries, wait)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt)
		}
		if sleepErr := sleep(ctx, wait); sleepErr != nil {
			return zero, fmt.Errorf("retry cancelled: %w", sleepErr)
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, maxRetries, lastErr)
}
