//go:build unit

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentyard/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	ctx := context.Background()
	backoff := retry.ConstantBackoff(time.Millisecond)

	t.Run("returns nil on first success", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, 3, backoff, nil, func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		transient := errors.New("transient")
		calls := 0
		err := retry.Do(ctx, 3, backoff, func(err error) bool {
			return errors.Is(err, transient)
		}, func(context.Context) error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops immediately on non-retryable error", func(t *testing.T) {
		business := errors.New("business rule violated")
		calls := 0
		err := retry.Do(ctx, 5, backoff, func(error) bool { return false }, func(context.Context) error {
			calls++
			return business
		})
		assert.ErrorIs(t, err, business)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error after max attempts", func(t *testing.T) {
		transient := errors.New("still failing")
		calls := 0
		err := retry.Do(ctx, 3, backoff, func(error) bool { return true }, func(context.Context) error {
			calls++
			return transient
		})
		assert.ErrorIs(t, err, transient)
		assert.Equal(t, 3, calls)
	})

	t.Run("honors context cancellation during backoff", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()
		err := retry.Do(cancelCtx, 3, retry.ConstantBackoff(time.Hour), func(error) bool { return true }, func(context.Context) error {
			return errors.New("transient")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExponentialBackoff(t *testing.T) {
	backoff := retry.ExponentialBackoff(100 * time.Millisecond)

	// Jitter adds at most 20% on top of the doubled base.
	for attempt, base := range []time.Duration{100, 200, 400} {
		wait := backoff(attempt)
		assert.GreaterOrEqual(t, wait, base*time.Millisecond)
		assert.LessOrEqual(t, wait, base*time.Millisecond*6/5)
	}
}
