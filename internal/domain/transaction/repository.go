package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines read access to the transaction log. All writes go
// through the ledger store so they stay atomic with balance updates.
type Repository interface {
	// GetByID retrieves a transaction by its ID
	GetByID(ctx context.Context, id string) (*Transaction, error)

	// List retrieves a filtered, paginated page of a user's transactions,
	// newest first, along with the total row count for the filter.
	List(ctx context.Context, userID int64, filter ListFilter) ([]*View, int, error)

	// ListByGoalID retrieves all entries tagged with a savings goal, newest first
	ListByGoalID(ctx context.Context, userID int64, goalID string) ([]*View, error)

	// ListByYear retrieves all of a user's transactions within a calendar year,
	// optionally restricted to one wallet, with category data joined.
	ListByYear(ctx context.Context, userID int64, year int, walletID string) ([]*View, error)

	// SumByCategory sums the amounts of a category's transactions
	// with transactionDate in [start, end].
	SumByCategory(ctx context.Context, userID int64, categoryID string, start, end time.Time) (decimal.Decimal, error)
}
