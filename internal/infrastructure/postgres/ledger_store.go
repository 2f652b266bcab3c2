package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"centavo/internal/domain/category"
	"centavo/internal/domain/ledger"
	"centavo/internal/domain/savings"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
)

// LedgerStore implements ledger.Store over a single PostgreSQL
// transaction. Every Atomic call maps to one BEGIN/COMMIT, and the
// FOR UPDATE row locks inside it serialize writers that touch the same
// wallet or goal.
type LedgerStore struct {
	db *DB
}

// NewLedgerStore creates a new PostgreSQL ledger store
func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Atomic runs fn inside one database transaction
func (s *LedgerStore) Atomic(ctx context.Context, fn func(ledger.Ops) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}

	if err := fn(&ledgerOps{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return nil
}

type ledgerOps struct {
	tx *sql.Tx
}

func (o *ledgerOps) WalletForUpdate(ctx context.Context, walletID string, userID int64) (*wallet.Wallet, error) {
	// No is_active filter: deletion must reverse balances on
	// soft-deleted wallets too. Activity rules live in the service.
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`

	w, err := scanWallet(o.tx.QueryRowContext(ctx, query, walletID, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return w, nil
}

func (o *ledgerOps) AddWalletBalance(ctx context.Context, walletID string, delta decimal.Decimal) error {
	query := `UPDATE wallets SET balance = balance + $2, updated_at = NOW() WHERE id = $1`
	result, err := o.tx.ExecContext(ctx, query, walletID, delta)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update: %w", err)
	}
	if rows == 0 {
		return wallet.ErrWalletNotFound
	}
	return nil
}

func (o *ledgerOps) GoalForUpdate(ctx context.Context, goalID string, userID int64) (*savings.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`

	g, err := scanGoal(o.tx.QueryRowContext(ctx, query, goalID, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, savings.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock savings goal: %w", err)
	}
	return g, nil
}

func (o *ledgerOps) SetGoalProgress(ctx context.Context, goalID string, current, withdrawn decimal.Decimal, status string, completedAt *time.Time) error {
	query := `
		UPDATE savings_goals SET
			current_amount = $2,
			withdrawn_amount = $3,
			status = $4,
			completed_at = $5,
			updated_at = NOW()
		WHERE id = $1`

	result, err := o.tx.ExecContext(ctx, query, goalID, current, withdrawn, status, completedAt)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check goal update: %w", err)
	}
	if rows == 0 {
		return savings.ErrGoalNotFound
	}
	return nil
}

func (o *ledgerOps) GetCategory(ctx context.Context, categoryID string, userID int64) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	c, err := scanCategory(o.tx.QueryRowContext(ctx, query, categoryID, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (o *ledgerOps) EnsureSystemCategory(ctx context.Context, userID int64, name, catType string) (*category.Category, error) {
	// The partial unique index on (user_id, lower(name), category_type)
	// makes the insert a no-op when the row already exists, so
	// concurrent callers converge on one category.
	insert := `
		INSERT INTO categories (id, user_id, name, category_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, lower(name), category_type) WHERE is_active DO NOTHING`

	if _, err := o.tx.ExecContext(ctx, insert, uuid.NewString(), userID, name, catType); err != nil {
		return nil, fmt.Errorf("failed to ensure system category: %w", err)
	}

	query := `SELECT ` + categoryColumns + ` FROM categories
		WHERE user_id = $1 AND lower(name) = lower($2) AND category_type = $3 AND is_active`

	c, err := scanCategory(o.tx.QueryRowContext(ctx, query, userID, name, catType).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to load system category: %w", err)
	}
	return c, nil
}

func (o *ledgerOps) InsertEntry(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, category_id, category_name, wallet_id, amount, note,
		                          transaction_date, kind, transfer_id, related_wallet_id, savings_goal_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	t := &transaction.Transaction{
		ID:              params.ID,
		UserID:          params.UserID,
		CategoryID:      params.CategoryID,
		CategoryName:    params.CategoryName,
		WalletID:        params.WalletID,
		Amount:          params.Amount,
		Note:            params.Note,
		TransactionDate: params.TransactionDate,
		Kind:            params.Kind,
		TransferID:      params.TransferID,
		RelatedWalletID: params.RelatedWalletID,
		SavingsGoalID:   params.SavingsGoalID,
	}

	err := o.tx.QueryRowContext(ctx, query,
		params.ID, params.UserID, params.CategoryID, params.CategoryName, params.WalletID,
		params.Amount, params.Note, params.TransactionDate, params.Kind,
		params.TransferID, params.RelatedWalletID, params.SavingsGoalID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return t, nil
}

func (o *ledgerOps) GetEntry(ctx context.Context, entryID string, userID int64) (*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, category_name, wallet_id, amount, note,
		       transaction_date, kind, transfer_id, related_wallet_id, savings_goal_id,
		       created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2`

	t, err := scanEntry(o.tx.QueryRowContext(ctx, query, entryID, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return t, nil
}

func (o *ledgerOps) ListEntriesByTransferID(ctx context.Context, transferID string, userID int64) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, category_name, wallet_id, amount, note,
		       transaction_date, kind, transfer_id, related_wallet_id, savings_goal_id,
		       created_at, updated_at
		FROM transactions
		WHERE transfer_id = $1 AND user_id = $2
		ORDER BY kind DESC`

	rows, err := o.tx.QueryContext(ctx, query, transferID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer legs: %w", err)
	}
	defer rows.Close()

	var entries []*transaction.Transaction
	for rows.Next() {
		t, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

func (o *ledgerOps) DeleteEntry(ctx context.Context, entryID string) error {
	result, err := o.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var categoryID, transferID, relatedWalletID, savingsGoalID sql.NullString
	err := scan(
		&t.ID, &t.UserID, &categoryID, &t.CategoryName, &t.WalletID,
		&t.Amount, &t.Note, &t.TransactionDate, &t.Kind,
		&transferID, &relatedWalletID, &savingsGoalID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.String
	}
	if transferID.Valid {
		t.TransferID = &transferID.String
	}
	if relatedWalletID.Valid {
		t.RelatedWalletID = &relatedWalletID.String
	}
	if savingsGoalID.Valid {
		t.SavingsGoalID = &savingsGoalID.String
	}
	return &t, nil
}
