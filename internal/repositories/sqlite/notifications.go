package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
)

var _ repositories.NotificationRepository = (*notificationRepository)(nil)

type notificationRepository struct {
	q querier
}

const notificationColumns = `id, user_id, kind, payload, status, gateway, message_id, error, created_at, updated_at`

// Create inserts a new notification
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Status == "" {
		n.Status = models.NotificationPending
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	payload := []byte("{}")
	if len(n.Payload) > 0 {
		var err error
		if payload, err = json.Marshal(n.Payload); err != nil {
			return fmt.Errorf("encode notification payload: %w", err)
		}
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, string(n.Kind), string(payload), n.Status, n.Gateway, n.MessageID, n.Error,
		formatTime(now), formatTime(now))
	return err
}

// UpdateStatus records the delivery outcome of a notification.
func (r *notificationRepository) UpdateStatus(ctx context.Context, id, status, messageID, errMsg string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE notifications SET status = ?, message_id = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, messageID, errMsg, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("notification %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// FindByUserID lists a user's notifications, newest first.
func (r *notificationRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Notification, error) {
	offset, size := repositories.Paginate(page, limit)
	rows, err := r.q.QueryContext(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, userID, size, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.Notification{}
	for rows.Next() {
		var n models.Notification
		var kind, payload, created, updated string
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &payload, &n.Status, &n.Gateway, &n.MessageID, &n.Error,
			&created, &updated); err != nil {
			return nil, err
		}
		n.Kind = models.NotificationKind(kind)
		if payload != "" && payload != "{}" {
			if err := json.Unmarshal([]byte(payload), &n.Payload); err != nil {
				return nil, fmt.Errorf("decode notification payload: %w", err)
			}
		}
		n.CreatedAt = parseTime(created)
		n.UpdatedAt = parseTime(updated)
		result = append(result, &n)
	}
	return result, rows.Err()
}
