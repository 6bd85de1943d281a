package ratelimit

import "errors"

var (
	ErrStoreRequired    = errors.New("store is required")
	ErrInvalidLimit     = errors.New("invalid limit")
	ErrInvalidWindow    = errors.New("invalid window")
	ErrKeyRequired      = errors.New("key is required")
	ErrUnknownAlgorithm = errors.New("unknown rate limit algorithm")

	// ErrStoreUnavailable wraps backing store failures. The FailOpen
	// decorator translates it into an allowed decision; it is never
	// surfaced to HTTP callers.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
