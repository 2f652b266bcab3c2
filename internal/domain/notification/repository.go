package notification

import (
	"context"
	"time"
)

// Repository defines the interface for notification data access
type Repository interface {
	// Create stores a notification with the given expiry
	Create(ctx context.Context, params CreateParams, expiresAt time.Time) (*Notification, error)

	// FindRecent finds a notification with the same (owner, type,
	// related) tuple created at or after since. Returns
	// ErrNotificationNotFound when there is none.
	FindRecent(ctx context.Context, userID int64, notifType, relatedID, relatedType string, since time.Time) (*Notification, error)

	// DeleteByRelated removes every notification of the given types
	// that references relatedID
	DeleteByRelated(ctx context.Context, userID int64, types []string, relatedID string) error

	// ListByUserID retrieves a user's notifications, newest first
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID int64) (int, error)

	// MarkRead marks one notification as read
	MarkRead(ctx context.Context, id string, userID int64) error

	// MarkAllRead marks every unread notification of a user as read,
	// returning how many rows changed
	MarkAllRead(ctx context.Context, userID int64) (int64, error)

	// Delete removes one notification
	Delete(ctx context.Context, id string, userID int64) error

	// DeleteRead removes a user's read notifications, returning how
	// many rows were removed
	DeleteRead(ctx context.Context, userID int64) (int64, error)

	// DeleteExpired removes notifications whose expiry has passed,
	// across all users
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
