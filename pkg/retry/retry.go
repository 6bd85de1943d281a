package retry

import (
	"context"
	"errors"
	"time"
)

// transient is implemented by errors that are safe to retry. The transport
// package's TransientError satisfies it; anything else is treated as a
// permanent failure and propagates immediately.
type transient interface {
	Transient() bool
}

// Classifier reports whether an error is worth another attempt.
type Classifier func(error) bool

// DefaultClassifier retries errors that declare themselves transient and
// deadline expirations, which usually mean a slow dependency rather than a
// broken request.
func DefaultClassifier(err error) bool {
	var t transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Option configures retry behavior.
type Option func(*config)

type config struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	classify    Classifier
}

// WithMaxAttempts sets how many times the operation runs before giving up.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the delay before the second attempt; each subsequent
// delay doubles.
func WithBaseDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithMaxDelay caps the exponential backoff.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithClassifier overrides the transient-error classifier.
func WithClassifier(fn Classifier) Option {
	return func(c *config) {
		if fn != nil {
			c.classify = fn
		}
	}
}

func defaultConfig() *config {
	return &config{
		maxAttempts: 3,
		baseDelay:   100 * time.Millisecond,
		maxDelay:    30 * time.Second,
		classify:    DefaultClassifier,
	}
}

// Do runs op with bounded exponential backoff and returns its result.
//
// Only errors the classifier recognizes as transient are retried; anything
// else propagates immediately on first occurrence so bugs are not masked as
// flaky infrastructure. After all attempts fail, Do returns an
// *ExhaustedError wrapping the last transient cause, distinguishable from a
// first-attempt hard failure via errors.Is(err, ErrRetriesExhausted).
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts ...Option) (T, error) {
	var zero T

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, cfg.delay(attempt-1)); err != nil {
				return zero, err
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !cfg.classify(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, &ExhaustedError{Attempts: cfg.maxAttempts, Err: lastErr}
}

// Run is Do for operations without a result value.
func Run(ctx context.Context, op func(context.Context) error, opts ...Option) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts...)
	return err
}

// delay returns baseDelay * 2^attemptIndex, capped at maxDelay.
func (c *config) delay(attemptIndex int) time.Duration {
	d := c.baseDelay
	for i := 0; i < attemptIndex; i++ {
		d *= 2
		if d >= c.maxDelay {
			return c.maxDelay
		}
	}
	return min(d, c.maxDelay)
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
