package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"centavo/internal/domain/wallet"
)

// WalletRepository implements the wallet.Repository interface for PostgreSQL
type WalletRepository struct {
	db *DB
}

// NewWalletRepository creates a new PostgreSQL wallet repository
func NewWalletRepository(db *DB) *WalletRepository {
	return &WalletRepository{db: db}
}

const walletColumns = `id, user_id, name, wallet_type, balance, currency, icon, color, description, is_active, created_at, updated_at`

func scanWallet(scan func(dest ...any) error) (*wallet.Wallet, error) {
	var w wallet.Wallet
	err := scan(
		&w.ID, &w.UserID, &w.Name, &w.Type, &w.Balance,
		&w.Currency, &w.Icon, &w.Color, &w.Description,
		&w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, params wallet.CreateParams) (*wallet.Wallet, error) {
	query := `
		INSERT INTO wallets (id, user_id, name, wallet_type, balance, currency, icon, color, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + walletColumns

	w, err := scanWallet(r.db.QueryRowContext(
		ctx, query,
		params.ID, params.UserID, params.Name, params.Type, params.Balance,
		params.Currency, params.Icon, params.Color, params.Description,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return w, nil
}

// GetByID retrieves a wallet by its ID
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

// ListByUserID retrieves a user's active wallets, newest first
func (r *WalletRepository) ListByUserID(ctx context.Context, userID int64) ([]*wallet.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*wallet.Wallet
	for rows.Next() {
		w, err := scanWallet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// Update applies the non-nil fields of params to a wallet
func (r *WalletRepository) Update(ctx context.Context, id string, params wallet.UpdateParams) (*wallet.Wallet, error) {
	query := `
		UPDATE wallets
		SET name        = COALESCE($2, name),
		    wallet_type = COALESCE($3, wallet_type),
		    balance     = COALESCE($4, balance),
		    currency    = COALESCE($5, currency),
		    icon        = COALESCE($6, icon),
		    color       = COALESCE($7, color),
		    description = COALESCE($8, description),
		    is_active   = COALESCE($9, is_active),
		    updated_at  = now()
		WHERE id = $1
		RETURNING ` + walletColumns

	var balance any
	if params.Balance != nil {
		balance = *params.Balance
	}

	w, err := scanWallet(r.db.QueryRowContext(
		ctx, query, id,
		params.Name, params.Type, balance, params.Currency,
		params.Icon, params.Color, params.Description, params.IsActive,
	).Scan)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}
	return w, nil
}
