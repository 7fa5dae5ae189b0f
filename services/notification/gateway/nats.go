package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unipool/unipool/internal/pkg/constants"
	"github.com/unipool/unipool/internal/pkg/models"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/services/notification"
)

// NotificationGW publishes per-recipient push events over NATS
type NotificationGW struct {
	natsClient *natspkg.Client
}

// NewNotificationGW creates a new notification gateway
func NewNotificationGW(client *natspkg.Client) notification.NotificationGW {
	return &NotificationGW{
		natsClient: client,
	}
}

// PublishPush publishes one push event on the recipient's subject
func (g *NotificationGW) PublishPush(ctx context.Context, ev *models.PushEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal push event: %w", err)
	}

	subject := fmt.Sprintf(constants.SubjectNotifyPush, ev.UserID)
	return g.natsClient.Publish(subject, data)
}
