package ratelimit

import (
	"context"
	"time"
)

// TokenBucket allows bursts up to the configured limit while maintaining an
// average rate of limit/window. Tokens accumulate continuously and are
// capped at the limit; each allowed check consumes exactly one token.
type TokenBucket struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewTokenBucket creates a new token bucket rate limiter.
func NewTokenBucket(store Store, limit int, window time.Duration, opts ...Option) (*TokenBucket, error) {
	if err := validate(store, limit, window); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &TokenBucket{
		store:  store,
		limit:  limit,
		window: window,
		now:    o.now,
	}, nil
}

// Allow consumes one token if available.
func (tb *TokenBucket) Allow(ctx context.Context, key string) (*Decision, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := tb.now()

	allowed, tokens, err := tb.store.TokenBucketTake(ctx, key, tb.limit, tb.window, now)
	if err != nil {
		return nil, err
	}

	perToken := float64(tb.window) / float64(tb.limit)

	decision := &Decision{
		Allowed:   allowed,
		Limit:     tb.limit,
		Remaining: max(int(tokens), 0),
		// The bucket "resets" when it has refilled completely.
		ResetAt: now.Add(time.Duration((float64(tb.limit) - tokens) * perToken)),
	}
	if !allowed {
		deficit := max(1-tokens, 0)
		decision.RetryAfter = time.Duration(deficit * perToken)
	}
	return decision, nil
}

// Reset clears the bucket for the given key.
func (tb *TokenBucket) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return tb.store.Reset(ctx, key)
}

func (tb *TokenBucket) Limit() int            { return tb.limit }
func (tb *TokenBucket) Window() time.Duration { return tb.window }
