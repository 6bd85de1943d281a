package transport_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmarket/notify/pkg/broadcast"
	"github.com/bizmarket/notify/pkg/inbox"
	"github.com/bizmarket/notify/pkg/transport"
)

func TestNewEmailSender_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config transport.EmailConfig
		errMsg string
	}{
		{
			name:   "missing server token",
			config: transport.EmailConfig{SenderEmail: "noreply@example.com"},
			errMsg: "PostmarkServerToken",
		},
		{
			name:   "missing sender email",
			config: transport.EmailConfig{PostmarkServerToken: "token"},
			errMsg: "SenderEmail",
		},
		{
			name: "malformed sender email",
			config: transport.EmailConfig{
				PostmarkServerToken: "token",
				SenderEmail:         "not-an-email",
			},
			errMsg: "valid email",
		},
		{
			name: "malformed support email",
			config: transport.EmailConfig{
				PostmarkServerToken: "token",
				SenderEmail:         "noreply@example.com",
				SupportEmail:        "nope",
			},
			errMsg: "SupportEmail",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender, err := transport.NewEmailSender(tt.config)
			assert.Nil(t, sender)
			require.ErrorIs(t, err, transport.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewEmailSender_ValidConfig(t *testing.T) {
	t.Parallel()

	sender, err := transport.NewEmailSender(transport.EmailConfig{
		PostmarkServerToken: "token",
		SenderEmail:         "noreply@example.com",
		SupportEmail:        "support@example.com",
	})
	require.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestNewSMSSender_InvalidConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		_, err := transport.NewSMSSender(transport.TwilioConfig{SMSFrom: "+15550001111"})
		assert.ErrorIs(t, err, transport.ErrInvalidConfig)
	})

	t.Run("missing from number", func(t *testing.T) {
		t.Parallel()

		_, err := transport.NewSMSSender(transport.TwilioConfig{
			AccountSID: "AC123",
			AuthToken:  "secret",
		})
		assert.ErrorIs(t, err, transport.ErrInvalidConfig)
	})
}

func TestNewWhatsAppSender_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := transport.NewWhatsAppSender(transport.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
	})
	assert.ErrorIs(t, err, transport.ErrInvalidConfig)
}

func TestNewPushSender_InvalidConfig(t *testing.T) {
	t.Parallel()

	resolver := transport.TokenResolverFunc(func(ctx context.Context, userID string) ([]string, error) {
		return nil, nil
	})

	t.Run("missing server key", func(t *testing.T) {
		t.Parallel()

		_, err := transport.NewPushSender(transport.PushConfig{}, resolver)
		assert.ErrorIs(t, err, transport.ErrInvalidConfig)
	})

	t.Run("missing resolver", func(t *testing.T) {
		t.Parallel()

		_, err := transport.NewPushSender(transport.PushConfig{FCMServerKey: "key"}, nil)
		assert.ErrorIs(t, err, transport.ErrInvalidConfig)
	})
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "wrapped deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: true},
		{
			name: "transient error type",
			err:  &transport.TransientError{Op: "send", Err: errors.New("connection reset")},
			want: true,
		},
		{
			name: "wrapped transient error",
			err:  fmt.Errorf("outer: %w", &transport.TransientError{Op: "send", Err: errors.New("reset")}),
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, transport.IsTransient(tt.err))
		})
	}
}

func TestInAppSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("persists to the inbox", func(t *testing.T) {
		t.Parallel()

		store := inbox.NewMemoryStorage()
		sender, err := transport.NewInAppSender(store, nil)
		require.NoError(t, err)

		ctx := context.Background()
		err = sender.Send(ctx, transport.InAppMessage{
			UserID:  "user-1",
			Title:   "Order shipped",
			Message: "Your order #42 is on its way",
			Data:    map[string]any{"order_id": "42"},
		})
		require.NoError(t, err)

		list, err := store.List(ctx, "user-1", inbox.ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Order shipped", list[0].Title)
		assert.NotEmpty(t, list[0].ID)
		assert.False(t, list[0].Read)
	})

	t.Run("pushes to live subscribers", func(t *testing.T) {
		t.Parallel()

		store := inbox.NewMemoryStorage()
		hub := broadcast.NewMemoryBroadcaster[inbox.Notification](4)
		t.Cleanup(func() { _ = hub.Close() })

		sender, err := transport.NewInAppSender(store, hub)
		require.NoError(t, err)

		ctx := context.Background()
		sub := hub.Subscribe(ctx)

		require.NoError(t, sender.Send(ctx, transport.InAppMessage{
			UserID:  "user-1",
			Message: "hello",
		}))

		select {
		case msg := <-sub.Receive(ctx):
			assert.Equal(t, "user-1", msg.Data.UserID)
			assert.Equal(t, "hello", msg.Data.Message)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the notification")
		}
	})

	t.Run("requires a user ID", func(t *testing.T) {
		t.Parallel()

		sender, err := transport.NewInAppSender(inbox.NewMemoryStorage(), nil)
		require.NoError(t, err)

		err = sender.Send(context.Background(), transport.InAppMessage{Message: "hello"})
		assert.ErrorIs(t, err, transport.ErrRecipientRequired)
	})

	t.Run("requires storage", func(t *testing.T) {
		t.Parallel()

		_, err := transport.NewInAppSender(nil, nil)
		assert.ErrorIs(t, err, transport.ErrInvalidConfig)
	})
}
