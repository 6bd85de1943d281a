package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/appleboy/go-fcm"
	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakePostmark struct {
	got  postmark.Email
	resp postmark.EmailResponse
	err  error
}

func (f *fakePostmark) SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error) {
	f.got = email
	return f.resp, f.err
}

func TestEmailSender_Send(t *testing.T) {
	t.Parallel()

	cfg := EmailConfig{SenderEmail: "noreply@example.com", SupportEmail: "support@example.com"}

	t.Run("delivers with configured sender identity", func(t *testing.T) {
		t.Parallel()

		fake := &fakePostmark{}
		sender := &EmailSender{client: fake, cfg: cfg}

		err := sender.Send(context.Background(), EmailMessage{
			To:      "buyer@example.com",
			Subject: "Order confirmed",
			Body:    "<p>Thanks for your order</p>",
			Tag:     "order-confirmation",
		})
		require.NoError(t, err)
		assert.Equal(t, "noreply@example.com", fake.got.From)
		assert.Equal(t, "support@example.com", fake.got.ReplyTo)
		assert.Equal(t, "buyer@example.com", fake.got.To)
		assert.Equal(t, "order-confirmation", fake.got.Tag)
	})

	t.Run("requires a recipient", func(t *testing.T) {
		t.Parallel()

		sender := &EmailSender{client: &fakePostmark{}, cfg: cfg}
		err := sender.Send(context.Background(), EmailMessage{Subject: "hi"})
		assert.ErrorIs(t, err, ErrRecipientRequired)
	})

	t.Run("timeout is transient", func(t *testing.T) {
		t.Parallel()

		fake := &fakePostmark{err: context.DeadlineExceeded}
		sender := &EmailSender{client: fake, cfg: cfg}

		err := sender.Send(context.Background(), EmailMessage{To: "buyer@example.com"})
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("postmark rejection is permanent", func(t *testing.T) {
		t.Parallel()

		fake := &fakePostmark{resp: postmark.EmailResponse{ErrorCode: 300, Message: "invalid recipient"}}
		sender := &EmailSender{client: fake, cfg: cfg}

		err := sender.Send(context.Background(), EmailMessage{To: "buyer@example.com"})
		require.ErrorIs(t, err, ErrSendFailed)
		assert.False(t, IsTransient(err))
	})
}

type fakeTwilio struct {
	got *twilioapi.CreateMessageParams
	err error
}

func (f *fakeTwilio) CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error) {
	f.got = params
	return &twilioapi.ApiV2010Message{}, f.err
}

func TestSMSSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("delivers from configured number", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTwilio{}
		sender := &SMSSender{api: fake, from: "+15550001111"}

		err := sender.Send(context.Background(), TextMessage{To: "+919876543210", Body: "Your OTP is 123456"})
		require.NoError(t, err)
		require.NotNil(t, fake.got)
		assert.Equal(t, "+15550001111", *fake.got.From)
		assert.Equal(t, "+919876543210", *fake.got.To)
		assert.Equal(t, "Your OTP is 123456", *fake.got.Body)
	})

	t.Run("requires a recipient", func(t *testing.T) {
		t.Parallel()

		sender := &SMSSender{api: &fakeTwilio{}, from: "+15550001111"}
		err := sender.Send(context.Background(), TextMessage{Body: "hi"})
		assert.ErrorIs(t, err, ErrRecipientRequired)
	})

	t.Run("twilio 5xx is transient", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTwilio{err: &twilioclient.TwilioRestError{Status: 503, Code: 20500, Message: "service unavailable"}}
		sender := &SMSSender{api: fake, from: "+15550001111"}

		err := sender.Send(context.Background(), TextMessage{To: "+919876543210", Body: "hi"})
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("twilio 4xx is permanent", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTwilio{err: &twilioclient.TwilioRestError{Status: 400, Code: 21211, Message: "invalid to number"}}
		sender := &SMSSender{api: fake, from: "+15550001111"}

		err := sender.Send(context.Background(), TextMessage{To: "not-a-number", Body: "hi"})
		require.ErrorIs(t, err, ErrSendFailed)
		assert.False(t, IsTransient(err))
	})
}

func TestWhatsAppSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("prefixes both parties and passes the body verbatim", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTwilio{}
		sender := &WhatsAppSender{api: fake, from: prefixWhatsApp("+15550001111")}

		const body = "Hi Priya, your table for 4 is confirmed for 19:30 tonight."
		err := sender.Send(context.Background(), TextMessage{To: "+919876543210", Body: body})
		require.NoError(t, err)
		require.NotNil(t, fake.got)
		assert.Equal(t, "whatsapp:+15550001111", *fake.got.From)
		assert.Equal(t, "whatsapp:+919876543210", *fake.got.To)
		assert.Equal(t, body, *fake.got.Body)
	})

	t.Run("does not double the prefix", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTwilio{}
		sender := &WhatsAppSender{api: fake, from: prefixWhatsApp("whatsapp:+15550001111")}

		err := sender.Send(context.Background(), TextMessage{To: "whatsapp:+919876543210", Body: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "whatsapp:+15550001111", *fake.got.From)
		assert.Equal(t, "whatsapp:+919876543210", *fake.got.To)
	})
}

type fakeFCM struct {
	got  *fcm.Message
	resp *fcm.Response
	err  error
}

func (f *fakeFCM) SendWithContext(ctx context.Context, msg *fcm.Message) (*fcm.Response, error) {
	f.got = msg
	return f.resp, f.err
}

func staticTokens(tokens ...string) TokenResolver {
	return TokenResolverFunc(func(ctx context.Context, userID string) ([]string, error) {
		return tokens, nil
	})
}

func TestPushSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("multicasts to all device tokens", func(t *testing.T) {
		t.Parallel()

		fake := &fakeFCM{resp: &fcm.Response{Success: 2}}
		sender := &PushSender{client: fake, tokens: staticTokens("tok-1", "tok-2")}

		err := sender.Send(context.Background(), PushMessage{
			UserID: "user-1",
			Title:  "New message",
			Body:   "You have a new enquiry",
			Data:   map[string]any{"thread_id": "t-9"},
		})
		require.NoError(t, err)
		require.NotNil(t, fake.got)
		assert.Equal(t, []string{"tok-1", "tok-2"}, fake.got.RegistrationIDs)
		require.NotNil(t, fake.got.Notification)
		assert.Equal(t, "New message", fake.got.Notification.Title)
	})

	t.Run("no devices is not an error", func(t *testing.T) {
		t.Parallel()

		fake := &fakeFCM{}
		sender := &PushSender{client: fake, tokens: staticTokens()}

		err := sender.Send(context.Background(), PushMessage{UserID: "user-1", Body: "hi"})
		require.NoError(t, err)
		assert.Nil(t, fake.got)
	})

	t.Run("requires a user ID", func(t *testing.T) {
		t.Parallel()

		sender := &PushSender{client: &fakeFCM{}, tokens: staticTokens("tok-1")}
		err := sender.Send(context.Background(), PushMessage{Body: "hi"})
		assert.ErrorIs(t, err, ErrRecipientRequired)
	})

	t.Run("resolver failure is surfaced", func(t *testing.T) {
		t.Parallel()

		resolver := TokenResolverFunc(func(ctx context.Context, userID string) ([]string, error) {
			return nil, errors.New("registry down")
		})
		sender := &PushSender{client: &fakeFCM{}, tokens: resolver}

		err := sender.Send(context.Background(), PushMessage{UserID: "user-1", Body: "hi"})
		assert.Error(t, err)
	})

	t.Run("fcm unavailable is transient", func(t *testing.T) {
		t.Parallel()

		fake := &fakeFCM{resp: &fcm.Response{
			Failure: 1,
			Results: []fcm.Result{{Error: fcm.ErrUnavailable}},
		}}
		sender := &PushSender{client: fake, tokens: staticTokens("tok-1")}

		err := sender.Send(context.Background(), PushMessage{UserID: "user-1", Body: "hi"})
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("stale token is skipped", func(t *testing.T) {
		t.Parallel()

		fake := &fakeFCM{resp: &fcm.Response{
			Failure: 1,
			Success: 1,
			Results: []fcm.Result{{Error: fcm.ErrNotRegistered}, {MessageID: "m-1"}},
		}}
		sender := &PushSender{client: fake, tokens: staticTokens("tok-old", "tok-new")}

		err := sender.Send(context.Background(), PushMessage{UserID: "user-1", Body: "hi"})
		assert.NoError(t, err)
	})

	t.Run("invalid registration is permanent", func(t *testing.T) {
		t.Parallel()

		fake := &fakeFCM{resp: &fcm.Response{
			Failure: 1,
			Results: []fcm.Result{{Error: fcm.ErrInvalidRegistration}},
		}}
		sender := &PushSender{client: fake, tokens: staticTokens("tok-1")}

		err := sender.Send(context.Background(), PushMessage{UserID: "user-1", Body: "hi"})
		require.ErrorIs(t, err, ErrSendFailed)
		assert.False(t, IsTransient(err))
	})
}
