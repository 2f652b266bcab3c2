package wallet

import "context"

// Repository defines the interface for wallet data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Create creates a new wallet
	Create(ctx context.Context, params CreateParams) (*Wallet, error)

	// GetByID retrieves a wallet by its ID, regardless of active flag
	GetByID(ctx context.Context, id string) (*Wallet, error)

	// ListByUserID retrieves all active wallets for a user, newest first
	ListByUserID(ctx context.Context, userID int64) ([]*Wallet, error)

	// Update applies the non-nil fields of params to a wallet
	Update(ctx context.Context, id string, params UpdateParams) (*Wallet, error)
}
