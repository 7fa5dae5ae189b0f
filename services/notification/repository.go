package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/unipool/unipool/internal/pkg/models"
)

// ErrNotificationNotFound is returned for lookups of unknown notifications
var ErrNotificationNotFound = errors.New("notification: not found")

// NotificationRepo defines the interface for notification persistence
type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	ListPending(ctx context.Context) ([]*models.Notification, error)
	// MarkSent claims a pending notification. It reports false when the
	// notification was already sent, so each record is dispatched only once.
	MarkSent(ctx context.Context, id uuid.UUID) (bool, error)
}
