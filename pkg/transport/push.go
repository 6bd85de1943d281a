package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appleboy/go-fcm"
)

// PushConfig holds the Firebase Cloud Messaging server key.
type PushConfig struct {
	FCMServerKey   string        `env:"FCM_SERVER_KEY,required"`
	RequestTimeout time.Duration `env:"FCM_REQUEST_TIMEOUT" envDefault:"10s"`
}

// PushMessage is one outbound push notification addressed by user, not by
// device. The adapter resolves the user's registered device tokens before
// sending.
type PushMessage struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]any
}

// TokenResolver maps a user ID to the FCM registration tokens of their
// devices. Implementations typically query the device registry.
type TokenResolver interface {
	DeviceTokens(ctx context.Context, userID string) ([]string, error)
}

// TokenResolverFunc adapts a function to the TokenResolver interface.
type TokenResolverFunc func(ctx context.Context, userID string) ([]string, error)

func (f TokenResolverFunc) DeviceTokens(ctx context.Context, userID string) ([]string, error) {
	return f(ctx, userID)
}

// fcmAPI is the slice of the FCM client the adapter uses.
type fcmAPI interface {
	SendWithContext(ctx context.Context, msg *fcm.Message) (*fcm.Response, error)
}

// PushSender delivers push notifications through Firebase Cloud Messaging.
type PushSender struct {
	client  fcmAPI
	tokens  TokenResolver
	timeout time.Duration
}

// NewPushSender creates an FCM-backed push adapter.
func NewPushSender(cfg PushConfig, tokens TokenResolver) (*PushSender, error) {
	if cfg.FCMServerKey == "" {
		return nil, fmt.Errorf("%w: FCMServerKey is required", ErrInvalidConfig)
	}
	if tokens == nil {
		return nil, fmt.Errorf("%w: token resolver is required", ErrInvalidConfig)
	}

	client, err := fcm.NewClient(cfg.FCMServerKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &PushSender{client: client, tokens: tokens, timeout: cfg.RequestTimeout}, nil
}

// Send resolves the user's device tokens and fans the message out to all of
// them in a single multicast request. A user with no registered devices is
// not an error; there is simply nothing to deliver.
func (s *PushSender) Send(ctx context.Context, msg PushMessage) error {
	if msg.UserID == "" {
		return ErrRecipientRequired
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tokens, err := s.tokens.DeviceTokens(ctx, msg.UserID)
	if err != nil {
		return classify("resolve device tokens", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	resp, err := s.client.SendWithContext(ctx, &fcm.Message{
		RegistrationIDs: tokens,
		Notification: &fcm.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return classify("fcm send", err)
	}

	if resp.Failure == 0 {
		return nil
	}
	for _, result := range resp.Results {
		if result.Error == nil {
			continue
		}
		if isTransientFCMError(result.Error) {
			return &TransientError{Op: "fcm send", Err: result.Error}
		}
		// Stale tokens are expected churn, not a delivery failure for
		// the notification as a whole.
		if errors.Is(result.Error, fcm.ErrNotRegistered) {
			continue
		}
		return fmt.Errorf("%w: fcm: %v", ErrSendFailed, result.Error)
	}
	return nil
}

func isTransientFCMError(err error) bool {
	return errors.Is(err, fcm.ErrUnavailable) ||
		errors.Is(err, fcm.ErrInternalServerError) ||
		errors.Is(err, fcm.ErrDeviceMessageRateExceeded)
}
