package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Budget periods
const (
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
)

// DefaultWarningThreshold is the percentage at which a budget starts warning.
const DefaultWarningThreshold = 80

// Domain errors
var (
	ErrBudgetNotFound    = errors.New("budget not found")
	ErrInvalidPeriod     = errors.New("budget period must be 'monthly' or 'weekly'")
	ErrOverlappingPeriod = errors.New("a budget for this category already covers part of this period")
)

// Budget is a spending cap for one category over a date range.
// Spend progress is derived from the transaction log at read time,
// never persisted.
type Budget struct {
	ID               string          `json:"id"`
	UserID           int64           `json:"userId"`
	CategoryID       string          `json:"categoryId"`
	CategoryName     string          `json:"categoryName,omitempty"`
	CategoryType     string          `json:"categoryType,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Period           string          `json:"period"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	WarningThreshold int             `json:"warningThreshold"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// WithSpent is a budget with its derived spend figures
type WithSpent struct {
	Budget
	Spent      decimal.Decimal `json:"spent"`
	Percentage float64         `json:"percentage"`
	Remaining  decimal.Decimal `json:"remaining"`
	IsWarning  bool            `json:"isWarning"`
	IsExceeded bool            `json:"isExceeded"`
}

// CreateParams contains parameters for creating a budget
type CreateParams struct {
	ID               string
	UserID           int64
	CategoryID       string
	Amount           decimal.Decimal
	Period           string
	StartDate        time.Time
	EndDate          time.Time
	WarningThreshold int
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.CategoryID == "" {
		return errors.New("category ID is required")
	}
	if !p.Amount.IsPositive() {
		return errors.New("budget amount must be greater than zero")
	}
	if p.Period != PeriodMonthly && p.Period != PeriodWeekly {
		return ErrInvalidPeriod
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return errors.New("start and end dates are required")
	}
	if p.EndDate.Before(p.StartDate) {
		return errors.New("end date must not be before start date")
	}
	if p.WarningThreshold < 0 || p.WarningThreshold > 100 {
		return errors.New("warning threshold must be between 0 and 100")
	}
	return nil
}

// UpdateParams contains optional fields for updating a budget
type UpdateParams struct {
	Amount           *decimal.Decimal
	StartDate        *time.Time
	EndDate          *time.Time
	WarningThreshold *int
}
