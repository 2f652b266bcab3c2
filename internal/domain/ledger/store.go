package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/category"
	"centavo/internal/domain/savings"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
)

// Store runs ledger mutations atomically. Every call to Atomic maps to
// one database transaction: either every write inside fn commits, or
// none do.
type Store interface {
	Atomic(ctx context.Context, fn func(Ops) error) error
}

// Ops is the write surface available inside an atomic ledger mutation.
// WalletForUpdate and GoalForUpdate take row locks, serializing
// concurrent mutations that touch the same wallet or goal. Callers that
// lock several wallets must lock them in ascending ID order.
type Ops interface {
	// WalletForUpdate loads and locks a wallet owned by userID
	WalletForUpdate(ctx context.Context, walletID string, userID int64) (*wallet.Wallet, error)

	// AddWalletBalance applies a signed delta to a wallet's balance
	AddWalletBalance(ctx context.Context, walletID string, delta decimal.Decimal) error

	// GoalForUpdate loads and locks a savings goal owned by userID
	GoalForUpdate(ctx context.Context, goalID string, userID int64) (*savings.Goal, error)

	// SetGoalProgress writes the goal's progress fields and status
	SetGoalProgress(ctx context.Context, goalID string, current, withdrawn decimal.Decimal, status string, completedAt *time.Time) error

	// GetCategory loads a category owned by userID
	GetCategory(ctx context.Context, categoryID string, userID int64) (*category.Category, error)

	// EnsureSystemCategory finds or creates a system category
	// idempotently; concurrent callers converge on one row.
	EnsureSystemCategory(ctx context.Context, userID int64, name, catType string) (*category.Category, error)

	// InsertEntry appends a ledger entry
	InsertEntry(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)

	// GetEntry loads a ledger entry owned by userID
	GetEntry(ctx context.Context, entryID string, userID int64) (*transaction.Transaction, error)

	// ListEntriesByTransferID loads both legs of a transfer pair
	ListEntriesByTransferID(ctx context.Context, transferID string, userID int64) ([]*transaction.Transaction, error)

	// DeleteEntry removes a ledger entry
	DeleteEntry(ctx context.Context, entryID string) error
}
