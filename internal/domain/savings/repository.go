package savings

import (
	"context"
	"time"
)

// Repository defines the interface for savings goal data access.
// Progress mutations (contribute/withdraw) go through the ledger store
// so they stay atomic with wallet balance updates.
type Repository interface {
	// Create creates a new goal
	Create(ctx context.Context, params CreateParams) (*Goal, error)

	// GetByID retrieves a goal by its ID
	GetByID(ctx context.Context, id string) (*Goal, error)

	// ListByUserID retrieves a user's goals, newest first, optionally
	// filtered by status.
	ListByUserID(ctx context.Context, userID int64, status string) ([]*Goal, error)

	// Update applies the non-nil fields of params to a goal
	Update(ctx context.Context, id string, params UpdateParams, completedAt *time.Time) (*Goal, error)

	// Delete removes a goal
	Delete(ctx context.Context, id string) error

	// ListWithDeadlineBetween retrieves goals across all users whose
	// deadline falls in [from, to]. Used by the deadline reminder sweep.
	ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]*Goal, error)
}
