package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes pending notifications
type NotificationType string

const (
	NotificationRideRequested NotificationType = "ride_requested"
	NotificationRideAccepted  NotificationType = "ride_accepted"
	NotificationRideRejected  NotificationType = "ride_rejected"
	NotificationPickup        NotificationType = "pickup"
	NotificationGeneric       NotificationType = "generic"
)

// Notification is a pending notification record. Recipients is the list of
// user ids the notification should be rendered for.
type Notification struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	Title      string           `json:"title" db:"title"`
	Body       string           `json:"body" db:"body"`
	Type       NotificationType `json:"type" db:"type"`
	Recipients []string         `json:"recipients" db:"-"`
	Sent       bool             `json:"sent" db:"sent"`
	SentAt     *time.Time       `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

// PushEvent is the per-recipient event dispatched over the message bus
type PushEvent struct {
	NotificationID string           `json:"notification_id"`
	UserID         string           `json:"user_id"`
	Title          string           `json:"title"`
	Body           string           `json:"body"`
	Type           NotificationType `json:"type"`
	Timestamp      time.Time        `json:"timestamp"`
}
