package inbox

import (
	"time"
)

// Notification is one in-app inbox entry. It is created by the in-app
// channel adapter during dispatch and read back by the user-facing inbox
// API.
type Notification struct {
	ID         string         `json:"id" bson:"_id"`
	UserID     string         `json:"user_id" bson:"user_id"`
	Title      string         `json:"title,omitempty" bson:"title,omitempty"`
	Message    string         `json:"message" bson:"message"`
	TemplateID string         `json:"template_id,omitempty" bson:"template_id,omitempty"`
	Data       map[string]any `json:"data,omitempty" bson:"data,omitempty"`
	Read       bool           `json:"read" bson:"read"`
	ReadAt     *time.Time     `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// MarkAsRead marks the notification as read with the current timestamp.
func (n *Notification) MarkAsRead() {
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}
