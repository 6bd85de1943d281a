package dispatch

import (
	"errors"
	"fmt"

	"github.com/bizmarket/notify/pkg/notification"
)

var (
	// ErrChannelNotRegistered is returned when a request names a channel
	// no service was registered for.
	ErrChannelNotRegistered = errors.New("dispatch.errors.channel_not_registered")

	// ErrMissingRecipient is the sentinel wrapped by MissingRecipientError.
	ErrMissingRecipient = errors.New("dispatch.errors.missing_recipient")

	// ErrServiceRequired is returned when a channel service is constructed
	// without its transport.
	ErrServiceRequired = errors.New("dispatch.errors.service_required")
)

// MissingRecipientError reports that the recipient field a channel needs is
// absent from the request. It is a validation-class failure and is never
// retried.
type MissingRecipientError struct {
	Channel notification.Channel
	Field   string
}

func (e *MissingRecipientError) Error() string {
	return fmt.Sprintf("channel %s requires field %q", e.Channel, e.Field)
}

func (e *MissingRecipientError) Unwrap() error { return ErrMissingRecipient }

// ChannelDeliveryError attributes a delivery failure to one channel so a
// multi-channel dispatch can report exactly which channels failed and why.
type ChannelDeliveryError struct {
	Channel notification.Channel
	Err     error
}

func (e *ChannelDeliveryError) Error() string {
	return fmt.Sprintf("channel %s: %v", e.Channel, e.Err)
}

func (e *ChannelDeliveryError) Unwrap() error { return e.Err }

// Transient reports whether the underlying failure is worth retrying, so
// the retry layer sees through the per-channel attribution.
func (e *ChannelDeliveryError) Transient() bool {
	var transient interface{ Transient() bool }
	if errors.As(e.Err, &transient) {
		return transient.Transient()
	}
	return false
}
