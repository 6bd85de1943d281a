package ratelimit

import (
	"context"
	"time"
)

// FixedWindow counts requests in discrete buckets keyed by the window's
// start time. The counter resets when the window rolls over; the old bucket
// expires out of the store on its own.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow creates a new fixed window rate limiter.
func NewFixedWindow(store Store, limit int, window time.Duration, opts ...Option) (*FixedWindow, error) {
	if err := validate(store, limit, window); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    o.now,
	}, nil
}

// Allow increments the current bucket's counter and checks it against the
// limit.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Decision, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := fw.now()
	windowStart := now.Truncate(fw.window)

	count, err := fw.store.FixedWindowIncr(ctx, key, windowStart, fw.window)
	if err != nil {
		return nil, err
	}

	allowed := count <= int64(fw.limit)
	decision := &Decision{
		Allowed:   allowed,
		Limit:     fw.limit,
		Remaining: max(fw.limit-int(count), 0),
		ResetAt:   windowStart.Add(fw.window),
	}
	if !allowed {
		decision.RetryAfter = decision.ResetAt.Sub(now)
	}
	return decision, nil
}

// Reset clears the current bucket for the given key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return fw.store.Reset(ctx, key)
}

func (fw *FixedWindow) Limit() int            { return fw.limit }
func (fw *FixedWindow) Window() time.Duration { return fw.window }
