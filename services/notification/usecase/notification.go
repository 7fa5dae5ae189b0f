package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/services/notification"
)

// NotificationUsecase dispatches pending notifications to their recipients
type NotificationUsecase struct {
	repo notification.NotificationRepo
	gw   notification.NotificationGW
}

// NewNotificationUsecase creates a new notification usecase
func NewNotificationUsecase(repo notification.NotificationRepo, gw notification.NotificationGW) *NotificationUsecase {
	return &NotificationUsecase{
		repo: repo,
		gw:   gw,
	}
}

var _ notification.NotificationUC = (*NotificationUsecase)(nil)

// Queue stores a pending notification for the next dispatch cycle
func (uc *NotificationUsecase) Queue(ctx context.Context, n *models.Notification) error {
	if n.Title == "" || len(n.Recipients) == 0 {
		return fmt.Errorf("notification: title and recipients are required")
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Type == "" {
		n.Type = models.NotificationGeneric
	}
	n.Sent = false
	n.CreatedAt = time.Now()

	return uc.repo.Create(ctx, n)
}

// DispatchPending claims each pending notification and publishes one push
// event per recipient. The claim happens before publishing, so a record is
// dispatched at most once even with competing dispatchers.
func (uc *NotificationUsecase) DispatchPending(ctx context.Context) (int, error) {
	pending, err := uc.repo.ListPending(ctx)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, n := range pending {
		claimed, err := uc.repo.MarkSent(ctx, n.ID)
		if err != nil {
			logger.Error("failed to claim notification",
				logger.String("notification_id", n.ID.String()),
				logger.Err(err))
			continue
		}
		if !claimed {
			continue
		}

		now := time.Now()
		for _, userID := range n.Recipients {
			ev := &models.PushEvent{
				NotificationID: n.ID.String(),
				UserID:         userID,
				Title:          n.Title,
				Body:           n.Body,
				Type:           n.Type,
				Timestamp:      now,
			}
			if err := uc.gw.PublishPush(ctx, ev); err != nil {
				logger.Warn("failed to publish push event",
					logger.String("notification_id", n.ID.String()),
					logger.String("user_id", userID),
					logger.Err(err))
			}
		}
		dispatched++
	}
	return dispatched, nil
}

// Run polls for pending notifications until ctx is done
func (uc *NotificationUsecase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.DispatchPending(ctx); err != nil {
				logger.Error("notification dispatch cycle failed", logger.Err(err))
			}
		}
	}
}

// ForUser filters push events down to the ones addressed to a user. Consumers
// render a notification only when the current user is a recipient.
func ForUser(events []*models.PushEvent, userID string) []*models.PushEvent {
	var out []*models.PushEvent
	for _, ev := range events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out
}
