package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store is the key-value backend holding rate limit counters. It owns the
// counter key namespace exclusively; no other component writes those keys.
// All operations must be atomic with respect to concurrent checks for the
// same key - a check-then-set pattern without atomicity permits unbounded
// overshoot and is incorrect.
type Store interface {
	// SlidingWindowRecord prunes timestamps older than the window, records
	// the current request, and returns the in-window count including the
	// new entry. The current request is recorded regardless of whether it
	// ends up allowed: rejected requests count against future decisions.
	SlidingWindowRecord(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)

	// SlidingWindowCount returns the in-window count without recording.
	SlidingWindowCount(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)

	// TokenBucketTake refills the bucket proportionally to elapsed time at
	// limit/window tokens per second, capped at limit, then consumes one
	// token if available. Returns whether a token was consumed and the
	// tokens remaining afterwards.
	TokenBucketTake(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (allowed bool, tokens float64, err error)

	// FixedWindowIncr increments the counter for the discrete window bucket
	// starting at windowStart and returns the post-increment count. The
	// counter auto-expires after the window duration.
	FixedWindowIncr(ctx context.Context, key string, windowStart time.Time, window time.Duration) (int64, error)

	// Reset removes all rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}

// Persisted key layout, shared by all Store implementations.
func slidingWindowKey(key string) string { return "rate_limit:" + key }
func tokenBucketKey(key string) string   { return "token_bucket:" + key }
func fixedWindowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("fixed_window:%s:%d", key, windowStart.Unix())
}
