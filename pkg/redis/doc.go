// Package redis provides connection management for the Redis backing store
// used by the rate limiter and the pub/sub queue consumer.
//
// Connect dials the server with bounded retries and returns an explicitly
// constructed client handle; no connection is created at import time. The
// Healthcheck helper integrates with the httpserver readiness probe.
package redis
