package notification

import (
	"context"

	"github.com/unipool/unipool/internal/pkg/models"
)

// NotificationGW defines the interface for push-event publishing
type NotificationGW interface {
	PublishPush(ctx context.Context, ev *models.PushEvent) error
}
