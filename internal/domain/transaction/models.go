package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds
const (
	KindNormal      = "normal"
	KindTransferOut = "transfer_out"
	KindTransferIn  = "transfer_in"
)

// Category names stamped on savings ledger entries, which carry no
// category row of their own.
const (
	SavingsCategoryName    = "Tiết kiệm"
	WithdrawalCategoryName = "Rút tiết kiệm"
)

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrSavingsEntry        = errors.New("savings entries cannot be deleted directly; withdraw from the goal instead")
)

// Transaction is an immutable ledger entry. Amount is always a positive
// magnitude; the sign is inferred from the category type or the kind.
type Transaction struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"userId"`
	CategoryID      *string         `json:"categoryId,omitempty"`
	CategoryName    string          `json:"categoryName,omitempty"`
	WalletID        string          `json:"walletId"`
	Amount          decimal.Decimal `json:"amount"`
	Note            string          `json:"note,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	Kind            string          `json:"type"`
	TransferID      *string         `json:"transferId,omitempty"`
	RelatedWalletID *string         `json:"relatedWalletId,omitempty"`
	SavingsGoalID   *string         `json:"savingsGoalId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// View is a transaction joined with its category and wallet for API responses
type View struct {
	Transaction
	CategoryType      string `json:"categoryType,omitempty"`
	WalletName        string `json:"walletName,omitempty"`
	RelatedWalletName string `json:"relatedWalletName,omitempty"`
}

// CreateParams contains parameters for inserting a ledger entry
type CreateParams struct {
	ID              string
	UserID          int64
	CategoryID      *string
	CategoryName    string
	WalletID        string
	Amount          decimal.Decimal
	Note            string
	TransactionDate time.Time
	Kind            string
	TransferID      *string
	RelatedWalletID *string
	SavingsGoalID   *string
}

// ListFilter narrows transaction listings
type ListFilter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	CategoryID   string
	CategoryType string // "in" or "out"; matches through the category join
	WalletID     string
	Search       string // substring match on note or category name
	Page         int
	Limit        int
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page envelope for a total row count
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
