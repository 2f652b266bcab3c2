package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/transaction"
)

// TransactionRepository implements the transaction.Repository read
// interface for PostgreSQL. Writes go through the ledger store.
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// viewColumns joins each entry with its category and wallet names.
// Savings entries have no category row; COALESCE falls back to the
// stamped category_name.
const viewColumns = `
	t.id, t.user_id, t.category_id, COALESCE(c.name, t.category_name), t.wallet_id,
	t.amount, t.note, t.transaction_date, t.kind,
	t.transfer_id, t.related_wallet_id, t.savings_goal_id,
	t.created_at, t.updated_at,
	COALESCE(c.category_type, ''), COALESCE(w.name, ''), COALESCE(rw.name, '')`

const viewJoins = `
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN wallets w ON w.id = t.wallet_id
	LEFT JOIN wallets rw ON rw.id = t.related_wallet_id`

func scanView(scan func(dest ...any) error) (*transaction.View, error) {
	var v transaction.View
	var categoryID, transferID, relatedWalletID, savingsGoalID sql.NullString
	err := scan(
		&v.ID, &v.UserID, &categoryID, &v.CategoryName, &v.WalletID,
		&v.Amount, &v.Note, &v.TransactionDate, &v.Kind,
		&transferID, &relatedWalletID, &savingsGoalID,
		&v.CreatedAt, &v.UpdatedAt,
		&v.CategoryType, &v.WalletName, &v.RelatedWalletName,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		v.CategoryID = &categoryID.String
	}
	if transferID.Valid {
		v.TransferID = &transferID.String
	}
	if relatedWalletID.Valid {
		v.RelatedWalletID = &relatedWalletID.String
	}
	if savingsGoalID.Valid {
		v.SavingsGoalID = &savingsGoalID.String
	}
	return &v, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, category_name, wallet_id, amount, note,
		       transaction_date, kind, transfer_id, related_wallet_id, savings_goal_id,
		       created_at, updated_at
		FROM transactions
		WHERE id = $1`

	t, err := scanEntry(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// List retrieves a filtered page of a user's transactions, newest first
func (r *TransactionRepository) List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.View, int, error) {
	where := ` WHERE t.user_id = $1`
	args := []any{userID}

	addArg := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}

	if filter.StartDate != nil {
		addArg(` AND t.transaction_date >= $%d`, *filter.StartDate)
	}
	if filter.EndDate != nil {
		addArg(` AND t.transaction_date <= $%d`, *filter.EndDate)
	}
	if filter.CategoryID != "" {
		addArg(` AND t.category_id = $%d`, filter.CategoryID)
	}
	if filter.CategoryType != "" {
		addArg(` AND c.category_type = $%d`, filter.CategoryType)
	}
	if filter.WalletID != "" {
		addArg(` AND t.wallet_id = $%d`, filter.WalletID)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND (t.note ILIKE $%d OR COALESCE(c.name, t.category_name) ILIKE $%d)`, len(args), len(args))
	}

	countQuery := `SELECT COUNT(*)` + viewJoins + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + viewColumns + viewJoins + where +
		` ORDER BY t.transaction_date DESC, t.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		args = append(args, offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	views, err := r.queryViews(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListByGoalID retrieves all entries tagged with a savings goal, newest first
func (r *TransactionRepository) ListByGoalID(ctx context.Context, userID int64, goalID string) ([]*transaction.View, error) {
	query := `SELECT ` + viewColumns + viewJoins + `
		WHERE t.user_id = $1 AND t.savings_goal_id = $2
		ORDER BY t.transaction_date DESC, t.created_at DESC`

	return r.queryViews(ctx, query, userID, goalID)
}

// ListByYear retrieves a user's transactions within a calendar year
func (r *TransactionRepository) ListByYear(ctx context.Context, userID int64, year int, walletID string) ([]*transaction.View, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	query := `SELECT ` + viewColumns + viewJoins + `
		WHERE t.user_id = $1 AND t.transaction_date >= $2 AND t.transaction_date < $3`
	args := []any{userID, start, end}

	if walletID != "" {
		args = append(args, walletID)
		query += fmt.Sprintf(` AND t.wallet_id = $%d`, len(args))
	}
	query += ` ORDER BY t.transaction_date ASC`

	return r.queryViews(ctx, query, args...)
}

// SumByCategory sums a category's transaction amounts in [start, end]
func (r *TransactionRepository) SumByCategory(ctx context.Context, userID int64, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2
		  AND transaction_date >= $3 AND transaction_date <= $4`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID, categoryID, start, end).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum category transactions: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepository) queryViews(ctx context.Context, query string, args ...any) ([]*transaction.View, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []*transaction.View
	for rows.Next() {
		v, err := scanView(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
