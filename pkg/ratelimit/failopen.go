package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bizmarket/notify/pkg/logger"
)

// FailOpen wraps a limiter so that backing store failures produce an allowed
// decision instead of an error. Availability of the protected resource takes
// priority over strict enforcement; every failure is logged so outages stay
// observable. Input errors (empty key) still surface.
func FailOpen(next Limiter, log *slog.Logger) Limiter {
	if log == nil {
		log = slog.Default()
	}
	return &failOpenLimiter{next: next, log: log}
}

type failOpenLimiter struct {
	next Limiter
	log  *slog.Logger
}

func (f *failOpenLimiter) Allow(ctx context.Context, key string) (*Decision, error) {
	decision, err := f.next.Allow(ctx, key)
	if err == nil {
		return decision, nil
	}
	if errors.Is(err, ErrKeyRequired) {
		return nil, err
	}

	f.log.LogAttrs(ctx, slog.LevelWarn, "rate limit store unreachable, failing open",
		logger.Key(key),
		logger.Error(err),
	)

	// Optimistic decision: the request proceeds with full quota reported.
	// Counters were not consulted, so nothing here needs rolling back.
	return &Decision{
		Allowed:   true,
		Limit:     f.next.Limit(),
		Remaining: f.next.Limit(),
		ResetAt:   time.Now().Add(f.next.Window()),
	}, nil
}

func (f *failOpenLimiter) Reset(ctx context.Context, key string) error {
	return f.next.Reset(ctx, key)
}

func (f *failOpenLimiter) Limit() int            { return f.next.Limit() }
func (f *failOpenLimiter) Window() time.Duration { return f.next.Window() }
