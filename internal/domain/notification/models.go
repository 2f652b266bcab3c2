package notification

import (
	"errors"
	"time"
)

// Notification types
const (
	TypeBudgetWarning    = "BUDGET_WARNING"
	TypeBudgetExceeded   = "BUDGET_EXCEEDED"
	TypeSavingsMilestone = "SAVINGS_MILESTONE"
	TypeSavingsCompleted = "SAVINGS_COMPLETED"
	TypeDeadlineReminder = "DEADLINE_REMINDER"
)

// Related entity kinds
const (
	RelatedBudget      = "budget"
	RelatedSavingsGoal = "savingsGoal"
)

// DedupWindow is how long an identical (owner, type, related) tuple
// suppresses a new notification. TTL is how long a notification lives
// before the purge job removes it.
const (
	DedupWindow = 24 * time.Hour
	TTL         = 30 * 24 * time.Hour
)

// Domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Notification is a stored in-app notification. Rows are derived from
// ledger state and may be retracted when that state moves back below a
// threshold.
type Notification struct {
	ID          string            `json:"id"`
	UserID      int64             `json:"-"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	RelatedID   string            `json:"relatedId,omitempty"`
	RelatedType string            `json:"relatedType,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	IsRead      bool              `json:"isRead"`
	ExpiresAt   time.Time         `json:"expiresAt"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// CreateParams contains parameters for storing a notification
type CreateParams struct {
	UserID      int64
	Type        string
	Title       string
	Message     string
	RelatedID   string
	RelatedType string
	Data        map[string]string
}

func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Type == "" {
		return errors.New("notification type is required")
	}
	if p.Title == "" {
		return errors.New("notification title is required")
	}
	if p.Message == "" {
		return errors.New("notification message is required")
	}
	return nil
}
