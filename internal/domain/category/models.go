package category

import (
	"errors"
	"strings"
	"time"
)

// Category types
const (
	TypeIncome  = "in"
	TypeExpense = "out"
)

// System categories created lazily for wallet-to-wallet transfers
const (
	TransferOutName = "Chuyển khoản (Ra)"
	TransferInName  = "Chuyển khoản (Vào)"
)

// Domain errors
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidType      = errors.New("category type must be 'in' or 'out'")
	ErrDuplicateName    = errors.New("category name already exists")
)

// Category classifies a transaction as income or expense.
// Soft-deleted via the active flag; name uniqueness is enforced
// case-insensitively per (owner, type) among active rows.
type Category struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateParams contains parameters for creating a category
type CreateParams struct {
	ID     string
	UserID int64
	Name   string
	Type   string
}

// Validate validates the create parameters, trimming the name in place
func (p *CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("category name is required")
	}
	if !IsValidType(p.Type) {
		return ErrInvalidType
	}
	return nil
}

// ListFilter narrows category listings
type ListFilter struct {
	Type            string
	IncludeInactive bool
}

// IsValidType checks if the provided category type is valid.
func IsValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
