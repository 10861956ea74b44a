package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification represents a single occurrence of a named broadcast event.
// It carries the event name, an optional reference to the object that posted
// it, and an arbitrary key/value payload. Notifications are immutable once
// posted; ownership passes to the observer on delivery.
type Notification struct {
	ID        string         `json:"id"`                  // Unique identifier for this occurrence
	Name      string         `json:"name"`                // Event name (e.g., "user.created")
	Source    any            `json:"source,omitempty"`    // Object that posted the notification, if any
	UserInfo  map[string]any `json:"user_info,omitempty"` // Arbitrary event payload
	CreatedAt time.Time      `json:"created_at"`          // When the notification was created
}

// New creates a Notification with auto-generated ID and timestamp.
//
// Example:
//
//	n := notification.New("user.created", nil, map[string]any{"user_id": "123"})
func New(name string, source any, userInfo map[string]any) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Name:      name,
		Source:    source,
		UserInfo:  userInfo,
		CreatedAt: time.Now(),
	}
}

// Normalized returns a copy of the notification with ID and CreatedAt
// populated if they are unset. Centers call this before dispatch so that
// observers always see fully formed notifications.
func (n Notification) Normalized() Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return n
}
