package model

import (
	"time"
)

// NotificationType indicates the severity of a notification.
type NotificationType string

// Recognized notification types.
const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeAlert   NotificationType = "alert"
)

// IsValid returns true if the notification type is recognized.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeWarning, NotificationTypeAlert:
		return true
	}
	return false
}

// NotificationStatus indicates the delivery status of a notification.
type NotificationStatus string

// Recognized notification statuses.
const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// IsValid returns true if the notification status is recognized.
func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent, NotificationStatusFailed:
		return true
	}
	return false
}

// Notification represents a single notification definition in the catalog. Notifications are never modified to
// record user interactions; those are recorded in the event log instead.
type Notification struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Body         string             `json:"body"`
	Type         NotificationType   `json:"type"`
	ScheduleTime *time.Time         `json:"schedule_time,omitempty"`
	Recipients   Recipients         `json:"recipients"`
	Status       NotificationStatus `json:"status"`
	CreatedBy    string             `json:"created_by"`
	UpdatedBy    *string            `json:"updated_by,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    *time.Time         `json:"deleted_at,omitempty"`
}

// ViewItem is a notification as it appears in a single user's view.
type ViewItem struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Type      NotificationType `json:"type"`
	UpdatedBy *string          `json:"updated_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Seen      bool             `json:"seen"`
}

// ViewItemFor projects a notification into a view item with the given seen flag.
func ViewItemFor(n *Notification, seen bool) ViewItem {
	return ViewItem{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Type:      n.Type,
		UpdatedBy: n.UpdatedBy,
		CreatedAt: n.CreatedAt,
		Seen:      seen,
	}
}
