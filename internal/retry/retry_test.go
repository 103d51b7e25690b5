package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	retries := 0
	err := Execute(context.Background(), Policy{MaxAttempts: 3, Backoff: BackoffLinear},
		func() { retries++ },
		func(context.Context) error {
			attempts++
			if attempts < 2 {
				return errors.New("transient")
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, retries)
}

func TestExecuteReturnsLastError(t *testing.T) {
	boom := errors.New("persistent")
	attempts := 0
	err := Execute(context.Background(), Policy{MaxAttempts: 2, Backoff: BackoffLinear}, nil,
		func(context.Context) error {
			attempts++
			return boom
		})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, attempts)
}

func TestExecuteZeroAttemptsRunsOnce(t *testing.T) {
	attempts := 0
	err := Execute(context.Background(), Policy{}, nil, func(context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Execute(ctx, Policy{MaxAttempts: 5, Backoff: BackoffLinear}, nil,
		func(context.Context) error {
			attempts++
			cancel()
			return errors.New("fail")
		})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestExecuteStopsOnPermanentError(t *testing.T) {
	boom := errors.New("unknown model")
	attempts := 0
	err := Execute(context.Background(), Policy{MaxAttempts: 5, Backoff: BackoffLinear}, nil,
		func(context.Context) error {
			attempts++
			return Permanent(boom)
		})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestBackoffDuration(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, BackoffDuration(BackoffLinear, 2))
	assert.Equal(t, 400*time.Millisecond, BackoffDuration(BackoffExponential, 3))

	jittered := BackoffDuration(BackoffExponentialJitter, 1)
	assert.GreaterOrEqual(t, jittered, 100*time.Millisecond)
	assert.Less(t, jittered, 200*time.Millisecond)
}
