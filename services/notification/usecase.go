package notification

import (
	"context"

	"github.com/unipool/unipool/internal/pkg/models"
)

// NotificationUC defines the interface for notification business logic
type NotificationUC interface {
	// Queue stores a pending notification for later dispatch
	Queue(ctx context.Context, n *models.Notification) error
	// DispatchPending fans every pending notification out to its recipients
	// and marks it sent; returns the number of notifications dispatched
	DispatchPending(ctx context.Context) (int, error)
}
