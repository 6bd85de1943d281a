package notification

import (
	"fmt"
	"strings"
)

// Channel identifies one delivery medium.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
	ChannelInApp    Channel = "inapp"
)

// Valid reports whether the channel is one of the known delivery media.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp, ChannelPush, ChannelInApp:
		return true
	}
	return false
}

func (c Channel) String() string { return string(c) }

// ParseChannel converts a string into a Channel.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown channel %q", ErrInvalidRequest, s)
	}
	return c, nil
}

// Request is the immutable value object describing one notification to be
// fanned out across the requested channels. It is the JSON schema shared by
// the HTTP API and both queue payload formats.
type Request struct {
	Channels       []Channel      `json:"channels"`
	RecipientEmail string         `json:"recipient_email,omitempty"`
	RecipientPhone string         `json:"recipient_phone,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	Title          string         `json:"title,omitempty"`
	Message        string         `json:"message"`
	TemplateID     string         `json:"template_id,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// ChannelSet returns the requested channels with duplicates collapsed,
// preserving first-occurrence order. The channels field is semantically a
// set; callers sending ["email","email"] get a single email.
func (r Request) ChannelSet() []Channel {
	seen := make(map[Channel]struct{}, len(r.Channels))
	set := make([]Channel, 0, len(r.Channels))
	for _, c := range r.Channels {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		set = append(set, c)
	}
	return set
}

// Validate checks the per-channel recipient invariants. A violation is a
// validation failure surfaced to the caller, never a silent skip.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Field: "message", Reason: "message must not be empty"}
	}
	if len(r.Channels) == 0 {
		return &ValidationError{Field: "channels", Reason: "at least one channel is required"}
	}

	for _, c := range r.ChannelSet() {
		if !c.Valid() {
			return &ValidationError{
				Field:   "channels",
				Channel: c,
				Reason:  fmt.Sprintf("unknown channel %q", string(c)),
			}
		}
		switch c {
		case ChannelEmail:
			if r.RecipientEmail == "" {
				return &ValidationError{
					Field:   "recipient_email",
					Channel: c,
					Reason:  "recipient_email is required when email channel is requested",
				}
			}
		case ChannelSMS, ChannelWhatsApp:
			if r.RecipientPhone == "" {
				return &ValidationError{
					Field:   "recipient_phone",
					Channel: c,
					Reason:  fmt.Sprintf("recipient_phone is required when %s channel is requested", c),
				}
			}
		}
	}

	return nil
}
