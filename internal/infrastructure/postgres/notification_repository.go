package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"centavo/internal/domain/notification"
)

// NotificationRepository implements notification.Repository for PostgreSQL
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `
	id, user_id, notif_type, title, message, related_id, related_type,
	data, is_read, expires_at, created_at`

func scanNotification(scan func(dest ...any) error) (*notification.Notification, error) {
	var n notification.Notification
	var data []byte
	err := scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
		&n.RelatedID, &n.RelatedType, &data,
		&n.IsRead, &n.ExpiresAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to decode notification data: %w", err)
		}
	}
	return &n, nil
}

// Create stores a notification with the given expiry
func (r *NotificationRepository) Create(ctx context.Context, params notification.CreateParams, expiresAt time.Time) (*notification.Notification, error) {
	data, err := json.Marshal(params.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, notif_type, title, message, related_id, related_type, data, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), params.UserID, params.Type, params.Title, params.Message,
		params.RelatedID, params.RelatedType, data, expiresAt,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// FindRecent finds a notification with the same (owner, type, related) tuple created at or after since
func (r *NotificationRepository) FindRecent(ctx context.Context, userID int64, notifType, relatedID, relatedType string, since time.Time) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND notif_type = $2 AND related_id = $3 AND related_type = $4
		  AND created_at >= $5
		ORDER BY created_at DESC
		LIMIT 1`

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, userID, notifType, relatedID, relatedType, since).Scan)
	if err == sql.ErrNoRows {
		return nil, notification.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recent notification: %w", err)
	}
	return n, nil
}

// DeleteByRelated removes every notification of the given types that references relatedID
func (r *NotificationRepository) DeleteByRelated(ctx context.Context, userID int64, types []string, relatedID string) error {
	query := `
		DELETE FROM notifications
		WHERE user_id = $1 AND notif_type = ANY($2) AND related_id = $3`

	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(types), relatedID); err != nil {
		return fmt.Errorf("failed to delete related notifications: %w", err)
	}
	return nil
}

// ListByUserID retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of a user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.RowsAffected()
}

// Delete removes one notification
func (r *NotificationRepository) Delete(ctx context.Context, id string, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// DeleteRead removes a user's read notifications
func (r *NotificationRepository) DeleteRead(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = $1 AND is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return result.RowsAffected()
}

// DeleteExpired removes notifications whose expiry has passed, across all users
func (r *NotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired notifications: %w", err)
	}
	return result.RowsAffected()
}
