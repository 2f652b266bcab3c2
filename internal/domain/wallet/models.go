package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet types
const (
	TypeCash    = "cash"
	TypeBank    = "bank"
	TypeCredit  = "credit"
	TypeEWallet = "ewallet"
)

var validTypes = map[string]struct{}{
	TypeCash:    {},
	TypeBank:    {},
	TypeCredit:  {},
	TypeEWallet: {},
}

// Domain errors
var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrWalletInactive    = errors.New("wallet is inactive")
	ErrInvalidWalletType = errors.New("invalid wallet type")
	ErrInvalidInput      = errors.New("invalid input")
)

// Wallet represents a named money container owned by a user.
// Balance is a running total mutated only through the ledger service.
type Wallet struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"userId"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new wallet
type CreateParams struct {
	ID          string
	UserID      int64
	Name        string
	Type        string
	Balance     decimal.Decimal
	Currency    string
	Icon        string
	Color       string
	Description string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("wallet name is required")
	}
	if !IsValidType(p.Type) {
		return ErrInvalidWalletType
	}
	return nil
}

// UpdateParams contains optional fields for updating a wallet
type UpdateParams struct {
	Name        *string
	Type        *string
	Balance     *decimal.Decimal
	Currency    *string
	Icon        *string
	Color       *string
	Description *string
	IsActive    *bool
}

// TypeSummary aggregates wallet count and balance for one wallet type
type TypeSummary struct {
	Count   int             `json:"count"`
	Balance decimal.Decimal `json:"balance"`
}

// Summary is the owner-wide balance rollup
type Summary struct {
	TotalBalance  decimal.Decimal        `json:"totalBalance"`
	TotalWallets  int                    `json:"totalWallets"`
	WalletsByType map[string]TypeSummary `json:"walletsByType"`
}

// IsValidType checks if the provided wallet type is valid.
func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}
