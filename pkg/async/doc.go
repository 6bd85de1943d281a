// Package async provides typed futures for fanning work out to goroutines
// and collecting the results.
//
// The dispatch layer uses it to deliver one notification over several
// channels concurrently: each channel send becomes a Future, and
// WaitAllSettled gathers every outcome so partial failures are reported
// per channel instead of masking each other.
//
// Usage:
//
//	f := async.Async(ctx, payload, func(ctx context.Context, p Payload) (Receipt, error) {
//		return deliver(ctx, p)
//	})
//
//	receipt, err := f.Await()
package async
