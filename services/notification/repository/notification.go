package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/services/notification"
)

// NotificationRepo persists pending notifications and their recipients
type NotificationRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(cfg *models.Config, db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{
		cfg: cfg,
		db:  db,
	}
}

var _ notification.NotificationRepo = (*NotificationRepo)(nil)

// Create inserts a notification and its recipient rows in one transaction
func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notifications (id, title, body, type, sent, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`
	if _, err := tx.ExecContext(ctx, query, n.ID, n.Title, n.Body, n.Type, n.CreatedAt); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	recipientQuery := `
		INSERT INTO notification_recipients (notification_id, user_id)
		VALUES ($1, $2)
	`
	for _, userID := range n.Recipients {
		if _, err := tx.ExecContext(ctx, recipientQuery, n.ID, userID); err != nil {
			return fmt.Errorf("failed to add notification recipient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notification: %w", err)
	}
	return nil
}

// ListPending retrieves unsent notifications with their recipients
func (r *NotificationRepo) ListPending(ctx context.Context) ([]*models.Notification, error) {
	query := `
		SELECT id, title, body, type, sent, sent_at, created_at
		FROM notifications
		WHERE sent = FALSE
		ORDER BY created_at
	`

	var notifications []*models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}

	recipientQuery := `
		SELECT user_id FROM notification_recipients WHERE notification_id = $1
	`
	for _, n := range notifications {
		if err := r.db.SelectContext(ctx, &n.Recipients, recipientQuery, n.ID); err != nil {
			return nil, fmt.Errorf("failed to load notification recipients: %w", err)
		}
	}
	return notifications, nil
}

// MarkSent claims a pending notification. The sent guard in the WHERE clause
// makes concurrent dispatchers agree on a single winner.
func (r *NotificationRepo) MarkSent(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE notifications
		SET sent = TRUE, sent_at = NOW()
		WHERE id = $1 AND sent = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows == 1, nil
}
