// Package retry wraps operations with bounded exponential backoff.
//
// Retry policy is centralized here: channel services stay single-attempt and
// callers (queue consumers, HTTP-layer collaborators) decide when a dispatch
// is worth repeating. Only the application's own transient-error taxonomy is
// retried - the default classifier recognizes errors implementing
// Transient() bool and context deadline expirations. Unknown failure modes
// propagate on first occurrence.
//
//	result, err := retry.Do(ctx, fetch,
//		retry.WithMaxAttempts(5),
//		retry.WithBaseDelay(200*time.Millisecond),
//	)
package retry
