package retry

import (
	"errors"
	"fmt"
)

// ErrRetriesExhausted is the sentinel wrapped by ExhaustedError.
var ErrRetriesExhausted = errors.New("retries exhausted")

// ExhaustedError is returned after every attempt failed with a transient
// error. It is deliberately a different type than the underlying cause so
// callers can tell exhaustion from a first-attempt hard failure; the cause
// remains reachable through Unwrap for diagnostics.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Err}
}
