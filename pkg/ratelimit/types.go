package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Algorithm selects the rate limiting strategy.
type Algorithm string

const (
	AlgorithmSlidingWindow Algorithm = "sliding_window"
	AlgorithmTokenBucket   Algorithm = "token_bucket"
	AlgorithmFixedWindow   Algorithm = "fixed_window"
)

// ParseAlgorithm converts a string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case AlgorithmSlidingWindow, AlgorithmTokenBucket, AlgorithmFixedWindow:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Decision is the result of a rate limit check. It is computed fresh on
// every check and never persisted; only the underlying store counters
// persist, bound by TTLs matching the window.
type Decision struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the quota left in the current window. Never negative.
	Remaining int

	// ResetAt is when the window or bucket resets.
	ResetAt time.Time

	// RetryAfter is how long to wait before the next request may be
	// allowed. Zero when the request was allowed.
	RetryAfter time.Duration
}

// Limiter decides, per key, whether a new request may proceed. Every Allow
// call mutates store state; it is not a pure read.
type Limiter interface {
	// Allow checks whether a single request is allowed for the given key.
	Allow(ctx context.Context, key string) (*Decision, error)

	// Reset clears all limiter state for the given key.
	Reset(ctx context.Context, key string) error

	// Limit returns the configured request limit.
	Limit() int

	// Window returns the configured window duration.
	Window() time.Duration
}

// Option configures a limiter.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithTimeSource overrides the limiter's clock. Intended for tests that need
// deterministic window boundaries.
func WithTimeSource(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func defaultOptions() *options {
	return &options{now: time.Now}
}

// New constructs a limiter for the given algorithm. The store decides where
// counters live (Redis in production, memory in tests); the algorithm
// decides how they are interpreted.
func New(store Store, limit int, window time.Duration, algorithm Algorithm, opts ...Option) (Limiter, error) {
	switch algorithm {
	case AlgorithmSlidingWindow:
		return NewSlidingWindow(store, limit, window, opts...)
	case AlgorithmTokenBucket:
		return NewTokenBucket(store, limit, window, opts...)
	case AlgorithmFixedWindow:
		return NewFixedWindow(store, limit, window, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}

func validate(store Store, limit int, window time.Duration) error {
	if store == nil {
		return ErrStoreRequired
	}
	if limit <= 0 {
		return ErrInvalidLimit
	}
	if window <= 0 {
		return ErrInvalidWindow
	}
	return nil
}
