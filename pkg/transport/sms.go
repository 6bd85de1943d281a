package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioConfig holds the credentials shared by the SMS and WhatsApp adapters.
type TwilioConfig struct {
	AccountSID     string        `env:"TWILIO_ACCOUNT_SID,required"`
	AuthToken      string        `env:"TWILIO_AUTH_TOKEN,required"`
	SMSFrom        string        `env:"TWILIO_SMS_FROM,required"`
	WhatsAppFrom   string        `env:"TWILIO_WHATSAPP_FROM"`
	RequestTimeout time.Duration `env:"TWILIO_REQUEST_TIMEOUT" envDefault:"10s"`
}

// TextMessage is one outbound SMS or WhatsApp message.
type TextMessage struct {
	To   string
	Body string
}

// messageCreator is the slice of the Twilio REST client the adapters use.
type messageCreator interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// SMSSender delivers SMS through Twilio.
//
// The Twilio client has no per-call context support; cancellation is
// approximated by the client-wide request timeout from TwilioConfig.
type SMSSender struct {
	api  messageCreator
	from string
}

// NewSMSSender creates a Twilio-backed SMS adapter.
func NewSMSSender(cfg TwilioConfig) (*SMSSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("%w: Twilio AccountSID and AuthToken are required", ErrInvalidConfig)
	}
	if cfg.SMSFrom == "" {
		return nil, fmt.Errorf("%w: SMSFrom is required", ErrInvalidConfig)
	}

	client := newTwilioClient(cfg)
	return &SMSSender{api: client.Api, from: cfg.SMSFrom}, nil
}

// Send delivers one SMS. Twilio 5xx responses and timeouts come back
// transient; 4xx rejections are permanent.
func (s *SMSSender) Send(ctx context.Context, msg TextMessage) error {
	if msg.To == "" {
		return ErrRecipientRequired
	}
	return sendTwilioMessage(s.api, s.from, msg.To, msg.Body, "twilio sms send")
}

func newTwilioClient(cfg TwilioConfig) *twilio.RestClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.RequestTimeout > 0 {
		client.SetTimeout(cfg.RequestTimeout)
	}
	return client
}

func sendTwilioMessage(api messageCreator, from, to, body, op string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	if _, err := api.CreateMessage(params); err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			if restErr.Status >= 500 {
				return &TransientError{Op: op, Err: err}
			}
			return fmt.Errorf("%w: twilio error %d: %s", ErrSendFailed, restErr.Code, restErr.Message)
		}
		return classify(op, err)
	}
	return nil
}
