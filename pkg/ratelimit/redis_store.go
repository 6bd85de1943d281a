package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lua scripts keep each check a single atomic round trip. Concurrent checks
// for the same key serialize on the Redis side, so the limit cannot be
// overshot by interleaved read-modify-write sequences.
var (
	// KEYS[1] sorted set, ARGV[1] now micros, ARGV[2] window micros, ARGV[3] member.
	// Prunes old entries, records the current request unconditionally and
	// returns the in-window count including the new entry.
	slidingWindowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', tonumber(ARGV[1]) - tonumber(ARGV[2]))
redis.call('ZADD', KEYS[1], tonumber(ARGV[1]), ARGV[3])
redis.call('PEXPIRE', KEYS[1], math.ceil(tonumber(ARGV[2]) / 1000))
return redis.call('ZCARD', KEYS[1])
`)

	// KEYS[1] sorted set, ARGV[1] now micros, ARGV[2] window micros.
	slidingCountScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', tonumber(ARGV[1]) - tonumber(ARGV[2]))
return redis.call('ZCARD', KEYS[1])
`)

	// KEYS[1] hash {tokens, last_refill}, ARGV[1] limit, ARGV[2] window
	// micros, ARGV[3] now micros. Refills proportionally to elapsed time,
	// capped at the limit, then consumes one token if available. Returns
	// {allowed, tokens-as-string}; the float survives as a string because
	// Lua numbers are truncated to integers on the way back to Redis.
	tokenBucketScript = redis.NewScript(`
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local rate = limit / window

local tokens = limit
local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
if state[1] then
	local last = tonumber(state[2])
	tokens = math.min(limit, tonumber(state[1]) + (now - last) * rate)
end

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'last_refill', now)
redis.call('PEXPIRE', KEYS[1], math.ceil(window / 1000) * 2)
return {allowed, tostring(tokens)}
`)

	// KEYS[1] counter, ARGV[1] ttl millis. The expiry is set only when the
	// counter is created so the bucket dies exactly one window after its
	// first request.
	fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], tonumber(ARGV[1]))
end
return count
`)
)

// RedisStore implements Store on top of a Redis-compatible server. The
// client handle is injected at construction; connection lifecycle belongs to
// the process entry point.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed rate limit store.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) SlidingWindowRecord(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	// Unique member per request: concurrent requests in the same
	// microsecond must not collapse into one sorted-set entry.
	member := strconv.FormatInt(now.UnixMicro(), 10) + ":" + uuid.NewString()

	count, err := slidingWindowScript.Run(ctx, s.client,
		[]string{slidingWindowKey(key)},
		now.UnixMicro(), window.Microseconds(), member,
	).Int64()
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *RedisStore) SlidingWindowCount(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	count, err := slidingCountScript.Run(ctx, s.client,
		[]string{slidingWindowKey(key)},
		now.UnixMicro(), window.Microseconds(),
	).Int64()
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *RedisStore) TokenBucketTake(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, float64, error) {
	res, err := tokenBucketScript.Run(ctx, s.client,
		[]string{tokenBucketKey(key)},
		limit, window.Microseconds(), now.UnixMicro(),
	).Slice()
	if err != nil {
		return false, 0, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return false, 0, errors.Join(ErrStoreUnavailable, errors.New("unexpected token bucket script reply"))
	}

	allowed, _ := res[0].(int64)
	tokensStr, _ := res[1].(string)
	tokens, err := strconv.ParseFloat(tokensStr, 64)
	if err != nil {
		return false, 0, errors.Join(ErrStoreUnavailable, err)
	}

	return allowed == 1, tokens, nil
}

func (s *RedisStore) FixedWindowIncr(ctx context.Context, key string, windowStart time.Time, window time.Duration) (int64, error) {
	count, err := fixedWindowScript.Run(ctx, s.client,
		[]string{fixedWindowKey(key, windowStart)},
		window.Milliseconds(),
	).Int64()
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return count, nil
}

// Reset removes all rate limit state for the key across the three
// namespaces. Fixed window buckets are discovered by scan since their key
// embeds the window start.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, slidingWindowKey(key), tokenBucketKey(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	iter := s.client.Scan(ctx, 0, "fixed_window:"+key+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
