package savings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"centavo/internal/domain/transaction"
)

// Service contains the business logic for goal lifecycle operations.
// Contributions and withdrawals live in the ledger service, which
// coordinates goal progress with wallet balances.
type Service struct {
	repo         Repository
	transactions transaction.Repository
}

// NewService creates a new savings goal service
func NewService(repo Repository, transactions transaction.Repository) *Service {
	return &Service{repo: repo, transactions: transactions}
}

// CreateGoal creates a goal with defaults applied
func (s *Service) CreateGoal(ctx context.Context, params CreateParams) (*Goal, error) {
	if params.Icon == "" {
		params.Icon = "🎯"
	}
	if params.Color == "" {
		params.Color = "#10b981"
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.ID = uuid.NewString()
	return s.repo.Create(ctx, params)
}

// GetGoal retrieves a goal by ID and verifies ownership
func (s *Service) GetGoal(ctx context.Context, goalID string, userID int64) (*Goal, error) {
	g, err := s.repo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrGoalNotFound
	}
	return g, nil
}

// ListGoals retrieves a user's goals, optionally filtered by status
func (s *Service) ListGoals(ctx context.Context, userID int64, status string) ([]*View, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	if status != "" && !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	goals, err := s.repo.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	views := make([]*View, 0, len(goals))
	for _, g := range goals {
		views = append(views, NewView(g))
	}
	return views, nil
}

// UpdateGoal updates goal metadata after verifying ownership. Setting
// the status to completed stamps completedAt.
func (s *Service) UpdateGoal(ctx context.Context, goalID string, userID int64, params UpdateParams) (*Goal, error) {
	if _, err := s.GetGoal(ctx, goalID, userID); err != nil {
		return nil, err
	}
	if params.Name != nil && *params.Name == "" {
		return nil, errors.New("goal name is required")
	}
	if params.TargetAmount != nil && !params.TargetAmount.IsPositive() {
		return nil, errors.New("target amount must be greater than zero")
	}
	var completedAt *time.Time
	if params.Status != nil {
		if !IsValidStatus(*params.Status) {
			return nil, ErrInvalidStatus
		}
		if *params.Status == StatusCompleted {
			now := time.Now()
			completedAt = &now
		}
	}
	return s.repo.Update(ctx, goalID, params, completedAt)
}

// DeleteGoal removes a goal. A goal still holding funds is rejected;
// the money has to be withdrawn back into a wallet first.
func (s *Service) DeleteGoal(ctx context.Context, goalID string, userID int64) error {
	g, err := s.GetGoal(ctx, goalID, userID)
	if err != nil {
		return err
	}
	if g.CurrentAmount.IsPositive() {
		return ErrGoalHasFunds
	}
	return s.repo.Delete(ctx, goalID)
}

// ListGoalTransactions retrieves the ledger entries tagged with a goal
func (s *Service) ListGoalTransactions(ctx context.Context, goalID string, userID int64) ([]*transaction.View, error) {
	g, err := s.GetGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	return s.transactions.ListByGoalID(ctx, userID, g.ID)
}
