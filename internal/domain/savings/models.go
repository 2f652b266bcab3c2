package savings

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Goal statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]struct{}{
	StatusActive:    {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Domain errors
var (
	ErrGoalNotFound     = errors.New("savings goal not found")
	ErrGoalNotActive    = errors.New("savings goal is not active")
	ErrGoalHasFunds     = errors.New("savings goal still holds funds; withdraw them first")
	ErrInvalidStatus    = errors.New("invalid savings goal status")
	ErrInsufficientGoal = errors.New("savings goal balance is insufficient")
)

// InsufficientGoalError carries the goal's current amount so the
// caller can show how much is actually available.
type InsufficientGoalError struct {
	Current decimal.Decimal
}

func (e *InsufficientGoalError) Error() string {
	return fmt.Sprintf("insufficient goal balance: current amount is %s", e.Current.String())
}

func (e *InsufficientGoalError) Unwrap() error { return ErrInsufficientGoal }

// Goal is a savings target funded by wallet contributions.
// CurrentAmount and WithdrawnAmount are the authoritative stored state;
// percentage, remaining, and totalContributed are derived on read.
type Goal struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"userId"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	TargetAmount    decimal.Decimal `json:"targetAmount"`
	CurrentAmount   decimal.Decimal `json:"currentAmount"`
	WithdrawnAmount decimal.Decimal `json:"withdrawnAmount"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	Icon            string          `json:"icon"`
	Color           string          `json:"color"`
	Status          string          `json:"status"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Percentage returns the goal's completion as a whole number in [0, 100].
// A completed goal always reads 100.
func (g *Goal) Percentage() int {
	if g.Status == StatusCompleted {
		return 100
	}
	return ProgressPercent(g.CurrentAmount, g.TargetAmount)
}

// Remaining returns how much is still missing, never negative
func (g *Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// TotalContributed returns everything ever put into the goal
func (g *Goal) TotalContributed() decimal.Decimal {
	return g.CurrentAmount.Add(g.WithdrawnAmount)
}

// View is a goal with its derived fields materialized for API responses
type View struct {
	Goal
	DerivedPercentage int             `json:"percentage"`
	DerivedRemaining  decimal.Decimal `json:"remaining"`
	TotalContributed  decimal.Decimal `json:"totalContributed"`
}

// NewView materializes the derived fields of a goal
func NewView(g *Goal) *View {
	return &View{
		Goal:              *g,
		DerivedPercentage: g.Percentage(),
		DerivedRemaining:  g.Remaining(),
		TotalContributed:  g.TotalContributed(),
	}
}

// ProgressPercent computes round(current/target*100) capped at 100.
// A zero target reads as zero progress.
func ProgressPercent(current, target decimal.Decimal) int {
	if !target.IsPositive() {
		return 0
	}
	pct := current.Div(target).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// CreateParams contains parameters for creating a goal
type CreateParams struct {
	ID           string
	UserID       int64
	Name         string
	Description  string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
	Icon         string
	Color        string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("goal name is required")
	}
	if !p.TargetAmount.IsPositive() {
		return errors.New("target amount must be greater than zero")
	}
	return nil
}

// UpdateParams contains optional fields for updating a goal
type UpdateParams struct {
	Name          *string
	Description   *string
	TargetAmount  *decimal.Decimal
	Deadline      *time.Time
	ClearDeadline bool
	Icon          *string
	Color         *string
	Status        *string
}

// IsValidStatus checks if the provided status is valid.
func IsValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}
