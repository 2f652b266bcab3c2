package category

import "context"

// Repository defines the interface for category data access
type Repository interface {
	// Create creates a new active category
	Create(ctx context.Context, params CreateParams) (*Category, error)

	// GetByID retrieves a category by its ID, regardless of active flag
	GetByID(ctx context.Context, id string) (*Category, error)

	// ListByUserID retrieves a user's categories ordered by name
	ListByUserID(ctx context.Context, userID int64, filter ListFilter) ([]*Category, error)

	// FindByName finds a category by case-insensitive name and type.
	// When activeOnly is false it matches inactive rows only.
	FindByName(ctx context.Context, userID int64, name, catType string, activeOnly bool) (*Category, error)

	// Rename updates a category's name and type
	Rename(ctx context.Context, id, name, catType string) (*Category, error)

	// SetActive toggles the soft-delete flag
	SetActive(ctx context.Context, id string, active bool) (*Category, error)
}
