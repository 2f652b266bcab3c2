package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"centavo/internal/domain/category"
	"centavo/internal/domain/transaction"
)

// Service contains the business logic for budget operations. Spend
// figures are always re-derived from the transaction log, so two reads
// without an intervening transaction yield identical results.
type Service struct {
	repo         Repository
	categories   *category.Service
	transactions transaction.Repository
}

// NewService creates a new budget service
func NewService(repo Repository, categories *category.Service, transactions transaction.Repository) *Service {
	return &Service{repo: repo, categories: categories, transactions: transactions}
}

// CreateBudget creates a budget after verifying category ownership and
// rejecting overlap with an existing budget for the same category.
func (s *Service) CreateBudget(ctx context.Context, params CreateParams) (*Budget, error) {
	if params.Period == "" {
		params.Period = PeriodMonthly
	}
	if params.WarningThreshold == 0 {
		params.WarningThreshold = DefaultWarningThreshold
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetCategory(ctx, params.CategoryID, params.UserID); err != nil {
		return nil, err
	}

	overlap, err := s.repo.FindOverlapping(ctx, params.UserID, params.CategoryID, params.StartDate, params.EndDate, "")
	if err != nil && !errors.Is(err, ErrBudgetNotFound) {
		return nil, err
	}
	if overlap != nil {
		return nil, ErrOverlappingPeriod
	}

	params.ID = uuid.NewString()
	return s.repo.Create(ctx, params)
}

// GetBudget retrieves a budget by ID and verifies ownership
func (s *Service) GetBudget(ctx context.Context, budgetID string, userID int64) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBudgetNotFound
	}
	return b, nil
}

// UpdateBudget updates a budget after verifying ownership. Date changes
// are re-checked for overlap against the category's other budgets.
func (s *Service) UpdateBudget(ctx context.Context, budgetID string, userID int64, params UpdateParams) (*Budget, error) {
	b, err := s.GetBudget(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}
	if params.Amount != nil && !params.Amount.IsPositive() {
		return nil, errors.New("budget amount must be greater than zero")
	}
	if params.WarningThreshold != nil && (*params.WarningThreshold < 0 || *params.WarningThreshold > 100) {
		return nil, errors.New("warning threshold must be between 0 and 100")
	}

	if params.StartDate != nil || params.EndDate != nil {
		start, end := b.StartDate, b.EndDate
		if params.StartDate != nil {
			start = *params.StartDate
		}
		if params.EndDate != nil {
			end = *params.EndDate
		}
		if end.Before(start) {
			return nil, errors.New("end date must not be before start date")
		}
		overlap, err := s.repo.FindOverlapping(ctx, userID, b.CategoryID, start, end, b.ID)
		if err != nil && !errors.Is(err, ErrBudgetNotFound) {
			return nil, err
		}
		if overlap != nil {
			return nil, ErrOverlappingPeriod
		}
	}

	return s.repo.Update(ctx, budgetID, params)
}

// DeleteBudget removes a budget after verifying ownership
func (s *Service) DeleteBudget(ctx context.Context, budgetID string, userID int64) error {
	if _, err := s.GetBudget(ctx, budgetID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, budgetID)
}

// ListBudgets returns all of a user's budgets with derived spend figures
func (s *Service) ListBudgets(ctx context.Context, userID int64) ([]*WithSpent, error) {
	budgets, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.derive(ctx, budgets)
}

// ListActiveBudgets returns the user's budgets covering the current
// instant, with derived spend figures.
func (s *Service) ListActiveBudgets(ctx context.Context, userID int64) ([]*WithSpent, error) {
	budgets, err := s.repo.ListActive(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	return s.derive(ctx, budgets)
}

func (s *Service) derive(ctx context.Context, budgets []*Budget) ([]*WithSpent, error) {
	out := make([]*WithSpent, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.transactions.SumByCategory(ctx, b.UserID, b.CategoryID, b.StartDate, b.EndDate)
		if err != nil {
			return nil, err
		}
		out = append(out, Derive(b, spent))
	}
	return out, nil
}

// Derive computes the spend figures for a budget. Pure function of the
// budget and the summed spend.
func Derive(b *Budget, spent decimal.Decimal) *WithSpent {
	pct := Percentage(spent, b.Amount)
	return &WithSpent{
		Budget:     *b,
		Spent:      spent,
		Percentage: pct,
		Remaining:  b.Amount.Sub(spent),
		IsWarning:  pct >= float64(b.WarningThreshold),
		IsExceeded: pct >= 100,
	}
}

// Percentage computes spent/amount*100 rounded to one decimal place.
// A zero cap yields zero rather than dividing by zero.
func Percentage(spent, amount decimal.Decimal) float64 {
	if !amount.IsPositive() {
		return 0
	}
	pct, _ := spent.Div(amount).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return pct
}
