package transport

import (
	"context"
	"fmt"
	"strings"
)

const whatsappPrefix = "whatsapp:"

// WhatsAppSender delivers WhatsApp messages through Twilio's messaging API.
// Twilio reuses the SMS endpoint for WhatsApp; only the address scheme
// differs, so both sender and recipient carry the "whatsapp:" prefix.
type WhatsAppSender struct {
	api  messageCreator
	from string
}

// NewWhatsAppSender creates a Twilio-backed WhatsApp adapter.
func NewWhatsAppSender(cfg TwilioConfig) (*WhatsAppSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("%w: Twilio AccountSID and AuthToken are required", ErrInvalidConfig)
	}
	if cfg.WhatsAppFrom == "" {
		return nil, fmt.Errorf("%w: WhatsAppFrom is required", ErrInvalidConfig)
	}

	client := newTwilioClient(cfg)
	return &WhatsAppSender{api: client.Api, from: prefixWhatsApp(cfg.WhatsAppFrom)}, nil
}

// Send delivers one WhatsApp message with the body passed through verbatim.
func (s *WhatsAppSender) Send(ctx context.Context, msg TextMessage) error {
	if msg.To == "" {
		return ErrRecipientRequired
	}
	return sendTwilioMessage(s.api, s.from, prefixWhatsApp(msg.To), msg.Body, "twilio whatsapp send")
}

func prefixWhatsApp(number string) string {
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}
