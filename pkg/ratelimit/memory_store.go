package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. It is the test double for
// RedisStore and is selected by explicit configuration, never substituted
// silently when Redis is unreachable.
type MemoryStore struct {
	mu       sync.Mutex
	windows  map[string][]time.Time
	buckets  map[string]*memoryBucket
	counters map[string]*memoryCounter

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

type memoryBucket struct {
	tokens     float64
	lastRefill time.Time
	expiresAt  time.Time
}

type memoryCounter struct {
	count     int64
	expiresAt time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the interval for expired-entry cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// NewMemoryStore creates an in-memory store with automatic cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string][]time.Time),
		buckets:         make(map[string]*memoryBucket),
		counters:        make(map[string]*memoryCounter),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) SlidingWindowRecord(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := slidingWindowKey(key)
	cutoff := now.Add(-window)

	kept := make([]time.Time, 0, len(s.windows[k])+1)
	for _, ts := range s.windows[k] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	s.windows[k] = kept

	return int64(len(kept)), nil
}

func (s *MemoryStore) SlidingWindowCount(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	var count int64
	for _, ts := range s.windows[slidingWindowKey(key)] {
		if ts.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) TokenBucketTake(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := tokenBucketKey(key)
	b, ok := s.buckets[k]
	if !ok || now.After(b.expiresAt) {
		b = &memoryBucket{tokens: float64(limit), lastRefill: now}
		s.buckets[k] = b
	} else {
		rate := float64(limit) / float64(window)
		refill := float64(now.Sub(b.lastRefill)) * rate
		b.tokens = min(float64(limit), b.tokens+refill)
		b.lastRefill = now
	}

	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}
	b.expiresAt = now.Add(window * 2)

	return allowed, b.tokens, nil
}

func (s *MemoryStore) FixedWindowIncr(ctx context.Context, key string, windowStart time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := fixedWindowKey(key, windowStart)
	c, ok := s.counters[k]
	if !ok {
		c = &memoryCounter{expiresAt: windowStart.Add(window)}
		s.counters[k] = c
	}
	c.count++

	return c.count, nil
}

func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, slidingWindowKey(key))
	delete(s.buckets, tokenBucketKey(key))
	prefix := "fixed_window:" + key + ":"
	for k := range s.counters {
		if strings.HasPrefix(k, prefix) {
			delete(s.counters, k)
		}
	}
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	for k, w := range s.windows {
		if len(w) == 0 || !w[len(w)-1].After(now.Add(-24*time.Hour)) {
			delete(s.windows, k)
		}
	}
	for k, b := range s.buckets {
		if now.After(b.expiresAt) {
			delete(s.buckets, k)
		}
	}
	for k, c := range s.counters {
		if now.After(c.expiresAt) {
			delete(s.counters, k)
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}
