package notification

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is the sentinel all validation failures wrap.
var ErrInvalidRequest = errors.New("invalid notification request")

// ValidationError describes a malformed request: a missing recipient field
// for a requested channel, an empty message, or an unknown channel name.
// Validation errors are never retried.
type ValidationError struct {
	Field   string
	Channel Channel
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("invalid notification request: field %q (channel %s): %s", e.Field, e.Channel, e.Reason)
	}
	return fmt.Sprintf("invalid notification request: field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }
