package budget

import (
	"context"
	"time"
)

// Repository defines the interface for budget data access
type Repository interface {
	// Create creates a new budget
	Create(ctx context.Context, params CreateParams) (*Budget, error)

	// GetByID retrieves a budget by its ID
	GetByID(ctx context.Context, id string) (*Budget, error)

	// ListByUserID retrieves all budgets for a user, latest period first
	ListByUserID(ctx context.Context, userID int64) ([]*Budget, error)

	// ListActive retrieves a user's budgets whose period covers the given instant
	ListActive(ctx context.Context, userID int64, at time.Time) ([]*Budget, error)

	// ListActiveByCategory retrieves the budgets for one category whose
	// period covers the given instant.
	ListActiveByCategory(ctx context.Context, userID int64, categoryID string, at time.Time) ([]*Budget, error)

	// FindOverlapping finds a budget for the same category whose period
	// intersects [start, end], excluding the budget with excludeID.
	FindOverlapping(ctx context.Context, userID int64, categoryID string, start, end time.Time, excludeID string) (*Budget, error)

	// Update applies the non-nil fields of params to a budget
	Update(ctx context.Context, id string, params UpdateParams) (*Budget, error)

	// Delete removes a budget
	Delete(ctx context.Context, id string) error

	// ListEndingBetween retrieves budgets across all users whose end date
	// falls in [from, to]. Used by the deadline reminder sweep.
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]*Budget, error)
}
