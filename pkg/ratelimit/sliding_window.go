package ratelimit

import (
	"context"
	"time"
)

// SlidingWindow tracks individual request timestamps within a moving time
// window. More accurate than fixed windows at the cost of storing one entry
// per request.
//
// The current request is always recorded, even when the decision is a
// rejection. A client hammering a saturated limit therefore keeps pushing
// its own reset further out. This penalizes retry storms and is intentional;
// most sliding-window limiters do not count rejected requests.
type SlidingWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewSlidingWindow creates a new sliding window rate limiter.
func NewSlidingWindow(store Store, limit int, window time.Duration, opts ...Option) (*SlidingWindow, error) {
	if err := validate(store, limit, window); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    o.now,
	}, nil
}

// Allow records the current request and checks it against the limit.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Decision, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := sw.now()

	count, err := sw.store.SlidingWindowRecord(ctx, key, now, sw.window)
	if err != nil {
		return nil, err
	}

	allowed := count <= int64(sw.limit)
	decision := &Decision{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(sw.limit-int(count), 0),
		ResetAt:   now.Add(sw.window),
	}
	if !allowed {
		// Upper bound: quota frees gradually as old entries age out, but
		// the exact moment would need the oldest timestamp.
		decision.RetryAfter = sw.window
	}
	return decision, nil
}

// Reset clears the window for the given key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Reset(ctx, key)
}

func (sw *SlidingWindow) Limit() int            { return sw.limit }
func (sw *SlidingWindow) Window() time.Duration { return sw.window }
