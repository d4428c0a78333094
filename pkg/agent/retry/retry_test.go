package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffolder/pkg/agent/llmerrors"
)

func rateLimited() error {
	return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeRateLimit, 429, "throttled")
}

// countingSleep records sleeps without actually waiting.
func countingSleep(count *int) func(context.Context, time.Duration) error {
	return func(_ context.Context, _ time.Duration) error {
		*count++
		return nil
	}
}

func TestInvokeSucceedsAfterRateLimits(t *testing.T) {
	sleeps := 0
	attempts := 0
	fn := func(_ context.Context) (string, error) {
		attempts++
		if attempts <= 2 {
			return "", rateLimited()
		}
		return "done", nil
	}

	result, err := Invoke(context.Background(), fn, Options{sleep: countingSleep(&sleeps)})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, sleeps)
}

func TestInvokeExhaustsOnPersistentRateLimit(t *testing.T) {
	sleeps := 0
	attempts := 0
	fn := func(_ context.Context) (int, error) {
		attempts++
		return 0, rateLimited()
	}

	_, err := Invoke(context.Background(), fn, Options{MaxRetries: 3, sleep: countingSleep(&sleeps)})
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, attempts)
	// The exhaustion error still carries the underlying classification.
	assert.True(t, llmerrors.IsRateLimit(err))
}

func TestInvokePropagatesOtherErrorsWithoutSleeping(t *testing.T) {
	sleeps := 0
	authErr := llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeAuth, 401, "bad key")
	fn := func(_ context.Context) (int, error) {
		return 0, authErr
	}

	_, err := Invoke(context.Background(), fn, Options{sleep: countingSleep(&sleeps)})
	require.Error(t, err)
	assert.True(t, llmerrors.Is(err, llmerrors.ErrorTypeAuth))
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 0, sleeps)
}

func TestInvokeHonorsContextCancellationDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(_ context.Context) (int, error) {
		return 0, rateLimited()
	}
	blockingSleep := func(ctx context.Context, _ time.Duration) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}

	_, err := Invoke(ctx, fn, Options{sleep: blockingSleep})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvokeOnRetryCallback(t *testing.T) {
	var notified []int
	attempts := 0
	fn := func(_ context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, rateLimited()
		}
		return 42, nil
	}
	sleeps := 0

	result, err := Invoke(context.Background(), fn, Options{
		OnRetry: func(attempt int) { notified = append(notified, attempt) },
		sleep:   countingSleep(&sleeps),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, []int{1}, notified)
}

func TestInvokeFirstTrySuccess(t *testing.T) {
	result, err := Invoke(context.Background(), func(_ context.Context) (string, error) {
		return "immediate", nil
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "immediate", result)
}

func TestInvokeDoesNotRetryPlainErrors(t *testing.T) {
	plain := errors.New("boom")
	attempts := 0
	_, err := Invoke(context.Background(), func(_ context.Context) (int, error) {
		attempts++
		return 0, plain
	}, Options{})
	assert.ErrorIs(t, err, plain)
	assert.Equal(t, 1, attempts)
}
