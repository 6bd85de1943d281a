package inbox

import (
	"context"
)

// Storage handles inbox notification persistence and retrieval.
type Storage interface {
	// Create stores a new notification.
	Create(ctx context.Context, notif Notification) error

	// Get retrieves a single notification belonging to the user.
	Get(ctx context.Context, userID, notifID string) (*Notification, error)

	// List returns the user's notifications, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)

	// MarkRead marks notification(s) as read.
	MarkRead(ctx context.Context, userID string, notifIDs ...string) error

	// CountUnread returns the unread count for the user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// Delete removes notification(s).
	Delete(ctx context.Context, userID string, notifIDs ...string) error
}

// ListOptions provides filtering and pagination for listing notifications.
type ListOptions struct {
	Limit      int  // Maximum number of notifications to return (0 = no limit)
	Offset     int  // Number of notifications to skip for pagination
	OnlyUnread bool // When true, only return unread notifications
}
