package transport

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/mrz1836/postmark"
)

// EmailConfig holds the Postmark credentials and sender identity.
// SenderEmail establishes the From address for all outbound mail;
// SupportEmail receives customer replies.
type EmailConfig struct {
	PostmarkServerToken  string        `env:"POSTMARK_SERVER_TOKEN,required"`
	PostmarkAccountToken string        `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string        `env:"SENDER_EMAIL,required"`
	SupportEmail         string        `env:"SUPPORT_EMAIL"`
	RequestTimeout       time.Duration `env:"POSTMARK_REQUEST_TIMEOUT" envDefault:"10s"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailMessage is one outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
	Tag     string
}

// postmarkAPI is the slice of the Postmark client the adapter uses.
type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// EmailSender delivers email through Postmark's transactional API.
type EmailSender struct {
	client postmarkAPI
	cfg    EmailConfig
}

// NewEmailSender creates a Postmark-backed email adapter.
func NewEmailSender(cfg EmailConfig) (*EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail != "" && !emailRegex.MatchString(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}

	return &EmailSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg:    cfg,
	}, nil
}

// Send delivers one email. Network failures come back transient; Postmark
// rejections (bad recipient, suppressed address) are permanent.
func (s *EmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if msg.To == "" {
		return ErrRecipientRequired
	}

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.cfg.SenderEmail,
		ReplyTo:    s.cfg.SupportEmail,
		To:         msg.To,
		Subject:    msg.Subject,
		HTMLBody:   msg.Body,
		TextBody:   msg.Body,
		Tag:        msg.Tag,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return classify("postmark send", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
