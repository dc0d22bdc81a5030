package policies

import "context"

// Notification is a sink-agnostic in-app notification.
type Notification struct {
	Recipient string
	Audience  string // "user" or "admin"
	Event     string
	Title     string
	Message   string
	Data      map[string]any
}

// Notifier delivers in-app notifications. Implementations are best-effort;
// callers catch and log failures instead of propagating them.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
