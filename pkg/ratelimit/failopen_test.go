package ratelimit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmarket/notify/pkg/ratelimit"
)

// brokenStore simulates an unreachable backing store.
type brokenStore struct{ err error }

func (s *brokenStore) SlidingWindowRecord(context.Context, string, time.Time, time.Duration) (int64, error) {
	return 0, s.err
}

func (s *brokenStore) SlidingWindowCount(context.Context, string, time.Time, time.Duration) (int64, error) {
	return 0, s.err
}

func (s *brokenStore) TokenBucketTake(context.Context, string, int, time.Duration, time.Time) (bool, float64, error) {
	return false, 0, s.err
}

func (s *brokenStore) FixedWindowIncr(context.Context, string, time.Time, time.Duration) (int64, error) {
	return 0, s.err
}

func (s *brokenStore) Reset(context.Context, string) error { return s.err }

func TestFailOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("store failure produces an allowed decision and a log entry", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.Join(ratelimit.ErrStoreUnavailable, errors.New("connection refused"))
		inner, err := ratelimit.NewSlidingWindow(&brokenStore{err: storeErr}, 5, time.Minute)
		require.NoError(t, err)

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))

		limiter := ratelimit.FailOpen(inner, log)

		decision, err := limiter.Allow(ctx, "user:42")
		require.NoError(t, err, "store unavailability must never surface to the caller")
		assert.True(t, decision.Allowed)
		assert.Equal(t, 5, decision.Limit)
		assert.GreaterOrEqual(t, decision.Remaining, 0)
		assert.Contains(t, buf.String(), "failing open")
	})

	t.Run("healthy limiter decisions pass through untouched", func(t *testing.T) {
		t.Parallel()

		store := ratelimit.NewMemoryStore()
		t.Cleanup(func() { _ = store.Close() })

		inner, err := ratelimit.NewFixedWindow(store, 1, time.Minute)
		require.NoError(t, err)

		limiter := ratelimit.FailOpen(inner, nil)

		first, err := limiter.Allow(ctx, "user:ok")
		require.NoError(t, err)
		assert.True(t, first.Allowed)

		second, err := limiter.Allow(ctx, "user:ok")
		require.NoError(t, err)
		assert.False(t, second.Allowed, "enforcement still applies while the store is healthy")
	})

	t.Run("input errors still surface", func(t *testing.T) {
		t.Parallel()

		store := ratelimit.NewMemoryStore()
		t.Cleanup(func() { _ = store.Close() })

		inner, err := ratelimit.NewFixedWindow(store, 1, time.Minute)
		require.NoError(t, err)

		limiter := ratelimit.FailOpen(inner, nil)

		_, err = limiter.Allow(ctx, "")
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
	})
}
