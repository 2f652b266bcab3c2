package wallet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service contains the business logic for wallet operations
type Service struct {
	repo Repository
}

// NewService creates a new wallet service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateWallet creates a new wallet with defaults applied
func (s *Service) CreateWallet(ctx context.Context, params CreateParams) (*Wallet, error) {
	if params.Currency == "" {
		params.Currency = "VND"
	}
	if params.Icon == "" {
		params.Icon = "💰"
	}
	if params.Color == "" {
		params.Color = "#6366f1"
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	params.ID = uuid.NewString()
	return s.repo.Create(ctx, params)
}

// GetWallet retrieves a wallet by ID and verifies user ownership.
// A wallet owned by another user is reported as not found.
func (s *Service) GetWallet(ctx context.Context, walletID string, userID int64) (*Wallet, error) {
	w, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrWalletNotFound
	}
	return w, nil
}

// ListWallets retrieves all active wallets for a user
func (s *Service) ListWallets(ctx context.Context, userID int64) ([]*Wallet, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// UpdateWallet updates a wallet after verifying ownership
func (s *Service) UpdateWallet(ctx context.Context, walletID string, userID int64, params UpdateParams) (*Wallet, error) {
	if _, err := s.GetWallet(ctx, walletID, userID); err != nil {
		return nil, err
	}
	if params.Type != nil && !IsValidType(*params.Type) {
		return nil, ErrInvalidWalletType
	}
	if params.Name != nil && *params.Name == "" {
		return nil, errors.New("wallet name is required")
	}
	return s.repo.Update(ctx, walletID, params)
}

// DeleteWallet soft-deletes a wallet by clearing its active flag
func (s *Service) DeleteWallet(ctx context.Context, walletID string, userID int64) error {
	if _, err := s.GetWallet(ctx, walletID, userID); err != nil {
		return err
	}
	inactive := false
	_, err := s.repo.Update(ctx, walletID, UpdateParams{IsActive: &inactive})
	return err
}

// Summarize computes the total balance and per-type breakdown of a user's active wallets
func (s *Service) Summarize(ctx context.Context, userID int64) (*Summary, error) {
	wallets, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalBalance:  decimal.Zero,
		TotalWallets:  len(wallets),
		WalletsByType: make(map[string]TypeSummary),
	}
	for _, w := range wallets {
		summary.TotalBalance = summary.TotalBalance.Add(w.Balance)
		ts := summary.WalletsByType[w.Type]
		ts.Count++
		ts.Balance = ts.Balance.Add(w.Balance)
		summary.WalletsByType[w.Type] = ts
	}
	return summary, nil
}
