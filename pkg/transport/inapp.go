package transport

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bizmarket/notify/pkg/broadcast"
	"github.com/bizmarket/notify/pkg/inbox"
)

// InAppMessage is one notification destined for a user's in-app inbox.
type InAppMessage struct {
	UserID     string
	Title      string
	Message    string
	TemplateID string
	Data       map[string]any
}

// InAppSender persists notifications to the inbox store and pushes them to
// any live subscribers over the broadcast hub.
type InAppSender struct {
	store inbox.Storage
	hub   broadcast.Broadcaster[inbox.Notification]
}

// NewInAppSender creates an in-app delivery adapter. The hub is optional;
// without one notifications are still persisted, just not pushed live.
func NewInAppSender(store inbox.Storage, hub broadcast.Broadcaster[inbox.Notification]) (*InAppSender, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: inbox storage is required", ErrInvalidConfig)
	}
	return &InAppSender{store: store, hub: hub}, nil
}

// Send writes the notification to the user's inbox. Persistence is the
// delivery guarantee; the live broadcast is best-effort and its failure does
// not fail the send.
func (s *InAppSender) Send(ctx context.Context, msg InAppMessage) error {
	if msg.UserID == "" {
		return ErrRecipientRequired
	}

	notif := inbox.Notification{
		ID:         uuid.NewString(),
		UserID:     msg.UserID,
		Title:      msg.Title,
		Message:    msg.Message,
		TemplateID: msg.TemplateID,
		Data:       msg.Data,
	}
	if err := s.store.Create(ctx, notif); err != nil {
		return classify("inbox create", err)
	}

	if s.hub != nil {
		_ = s.hub.Broadcast(ctx, broadcast.Message[inbox.Notification]{Data: notif})
	}
	return nil
}
