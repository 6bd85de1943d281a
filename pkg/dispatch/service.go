package dispatch

import (
	"context"

	"github.com/bizmarket/notify/pkg/notification"
	"github.com/bizmarket/notify/pkg/transport"
)

// ChannelService delivers a notification over exactly one channel. It checks
// the recipient field its channel needs and then makes a single transport
// call; retries and backoff are layered on top by the caller, never here.
type ChannelService interface {
	Channel() notification.Channel
	Send(ctx context.Context, req notification.Request) error
}

// Transport interfaces accepted by the channel services. The concrete
// implementations live in the transport package; tests substitute fakes.
type (
	EmailTransport interface {
		Send(ctx context.Context, msg transport.EmailMessage) error
	}
	TextTransport interface {
		Send(ctx context.Context, msg transport.TextMessage) error
	}
	PushTransport interface {
		Send(ctx context.Context, msg transport.PushMessage) error
	}
	InAppTransport interface {
		Send(ctx context.Context, msg transport.InAppMessage) error
	}
)

// EmailService delivers over the email channel.
type EmailService struct {
	transport EmailTransport
}

func NewEmailService(t EmailTransport) *EmailService {
	return &EmailService{transport: t}
}

func (s *EmailService) Channel() notification.Channel { return notification.ChannelEmail }

func (s *EmailService) Send(ctx context.Context, req notification.Request) error {
	if req.RecipientEmail == "" {
		return &MissingRecipientError{Channel: s.Channel(), Field: "recipient_email"}
	}
	return s.transport.Send(ctx, transport.EmailMessage{
		To:      req.RecipientEmail,
		Subject: req.Title,
		Body:    req.Message,
		Tag:     req.TemplateID,
	})
}

// SMSService delivers over the SMS channel.
type SMSService struct {
	transport TextTransport
}

func NewSMSService(t TextTransport) *SMSService {
	return &SMSService{transport: t}
}

func (s *SMSService) Channel() notification.Channel { return notification.ChannelSMS }

func (s *SMSService) Send(ctx context.Context, req notification.Request) error {
	if req.RecipientPhone == "" {
		return &MissingRecipientError{Channel: s.Channel(), Field: "recipient_phone"}
	}
	return s.transport.Send(ctx, transport.TextMessage{
		To:   req.RecipientPhone,
		Body: req.Message,
	})
}

// WhatsAppService delivers over the WhatsApp channel.
type WhatsAppService struct {
	transport TextTransport
}

func NewWhatsAppService(t TextTransport) *WhatsAppService {
	return &WhatsAppService{transport: t}
}

func (s *WhatsAppService) Channel() notification.Channel { return notification.ChannelWhatsApp }

func (s *WhatsAppService) Send(ctx context.Context, req notification.Request) error {
	if req.RecipientPhone == "" {
		return &MissingRecipientError{Channel: s.Channel(), Field: "recipient_phone"}
	}
	return s.transport.Send(ctx, transport.TextMessage{
		To:   req.RecipientPhone,
		Body: req.Message,
	})
}

// PushService delivers over the push channel.
type PushService struct {
	transport PushTransport
}

func NewPushService(t PushTransport) *PushService {
	return &PushService{transport: t}
}

func (s *PushService) Channel() notification.Channel { return notification.ChannelPush }

func (s *PushService) Send(ctx context.Context, req notification.Request) error {
	if req.UserID == "" {
		return &MissingRecipientError{Channel: s.Channel(), Field: "user_id"}
	}
	return s.transport.Send(ctx, transport.PushMessage{
		UserID: req.UserID,
		Title:  req.Title,
		Body:   req.Message,
		Data:   req.Data,
	})
}

// InAppService delivers to the user's in-app inbox.
type InAppService struct {
	transport InAppTransport
}

func NewInAppService(t InAppTransport) *InAppService {
	return &InAppService{transport: t}
}

func (s *InAppService) Channel() notification.Channel { return notification.ChannelInApp }

func (s *InAppService) Send(ctx context.Context, req notification.Request) error {
	if req.UserID == "" {
		return &MissingRecipientError{Channel: s.Channel(), Field: "user_id"}
	}
	return s.transport.Send(ctx, transport.InAppMessage{
		UserID:     req.UserID,
		Title:      req.Title,
		Message:    req.Message,
		TemplateID: req.TemplateID,
		Data:       req.Data,
	})
}
