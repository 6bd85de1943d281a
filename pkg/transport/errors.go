package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrInvalidConfig is returned when an adapter is constructed with
	// missing or malformed configuration.
	ErrInvalidConfig = errors.New("transport.errors.invalid_config")

	// ErrRecipientRequired is returned when a send is attempted without a
	// destination address, phone number, or user ID.
	ErrRecipientRequired = errors.New("transport.errors.recipient_required")

	// ErrSendFailed is returned when a provider permanently rejects a message.
	ErrSendFailed = errors.New("transport.errors.send_failed")
)

// TransientError marks a delivery failure as retryable. The retry package
// recognizes it through the Transient method.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Transient reports that the failure is worth retrying.
func (e *TransientError) Transient() bool { return true }

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err looks like a temporary network or provider
// failure: a timeout, a deadline expiry, or anything already marked transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transient interface{ Transient() bool }
	if errors.As(err, &transient) {
		return transient.Transient()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// classify wraps network-level failures as transient so the retry layer can
// act on them, and leaves provider rejections permanent.
func classify(op string, err error) error {
	if IsTransient(err) {
		return &TransientError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
