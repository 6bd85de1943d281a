// Package ratelimit decides, per key, whether a new request may proceed.
//
// Three algorithms are provided, selectable via New or constructed directly:
//
//   - SlidingWindow: a time-ordered set of request timestamps per key,
//     pruned on every check. The current request is always recorded, even
//     when rejected - retry storms keep penalizing themselves.
//   - TokenBucket: tokens accumulate continuously at limit/window per
//     second, capped at the limit; an allowed check consumes exactly one.
//   - FixedWindow: an integer counter per discrete window bucket that
//     expires with the window.
//
// Counters live behind the Store interface. RedisStore runs each check as a
// single Lua script so concurrent checks for the same key cannot overshoot
// the limit; MemoryStore is the mutex-guarded test double. The store is
// chosen by configuration - never substituted silently on connection
// failure. When the backing store is unreachable, the FailOpen decorator
// turns the error into an allowed decision with a logged warning: the
// protected resource's availability wins over strict enforcement.
//
// Middleware translates decisions into X-RateLimit-Limit, -Remaining,
// -Reset and Retry-After headers, answering 429 on rejection.
package ratelimit
