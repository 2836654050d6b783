package model

import "time"

// Action is something a user did to a notification.
type Action string

// Recognized actions.
const (
	ActionSeen    Action = "seen"
	ActionDeleted Action = "deleted"
)

// IsValid returns true if the action is recognized.
func (a Action) IsValid() bool {
	return a == ActionSeen || a == ActionDeleted
}

// EventLogEntry records a single user action against a notification. Entries are never updated or removed, and
// the same action may be recorded more than once for the same user and notification.
type EventLogEntry struct {
	UserID         string    `json:"user_id"`
	NotificationID string    `json:"notification_id"`
	Action         Action    `json:"action"`
	Timestamp      time.Time `json:"timestamp"`
}
