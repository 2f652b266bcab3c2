package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"centavo/internal/domain/budget"
)

// BudgetRepository implements budget.Repository for PostgreSQL
type BudgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new PostgreSQL budget repository
func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `
	b.id, b.user_id, b.category_id, b.amount, b.period,
	b.start_date, b.end_date, b.warning_threshold,
	b.created_at, b.updated_at,
	COALESCE(c.name, ''), COALESCE(c.category_type, '')`

const budgetJoins = `
	FROM budgets b
	LEFT JOIN categories c ON c.id = b.category_id`

func scanBudget(scan func(dest ...any) error) (*budget.Budget, error) {
	var b budget.Budget
	err := scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period,
		&b.StartDate, &b.EndDate, &b.WarningThreshold,
		&b.CreatedAt, &b.UpdatedAt,
		&b.CategoryName, &b.CategoryType,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create creates a new budget
func (r *BudgetRepository) Create(ctx context.Context, params budget.CreateParams) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, category_id, amount, period, start_date, end_date, warning_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		params.ID, params.UserID, params.CategoryID, params.Amount,
		params.Period, params.StartDate, params.EndDate, params.WarningThreshold,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a budget by its ID
func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + ` WHERE b.id = $1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// ListByUserID retrieves all budgets for a user, latest period first
func (r *BudgetRepository) ListByUserID(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + `
		WHERE b.user_id = $1
		ORDER BY b.start_date DESC, b.created_at DESC`

	return r.queryBudgets(ctx, query, userID)
}

// ListActive retrieves a user's budgets whose period covers the given instant
func (r *BudgetRepository) ListActive(ctx context.Context, userID int64, at time.Time) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + `
		WHERE b.user_id = $1 AND b.start_date <= $2 AND b.end_date >= $2
		ORDER BY b.start_date DESC`

	return r.queryBudgets(ctx, query, userID, at)
}

// ListActiveByCategory retrieves the budgets for one category whose period covers the given instant
func (r *BudgetRepository) ListActiveByCategory(ctx context.Context, userID int64, categoryID string, at time.Time) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + `
		WHERE b.user_id = $1 AND b.category_id = $2
		  AND b.start_date <= $3 AND b.end_date >= $3
		ORDER BY b.start_date DESC`

	return r.queryBudgets(ctx, query, userID, categoryID, at)
}

// FindOverlapping finds a budget for the same category whose period intersects [start, end]
func (r *BudgetRepository) FindOverlapping(ctx context.Context, userID int64, categoryID string, start, end time.Time, excludeID string) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + `
		WHERE b.user_id = $1 AND b.category_id = $2
		  AND b.start_date <= $4 AND b.end_date >= $3
		  AND ($5 = '' OR b.id <> $5)
		LIMIT 1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, userID, categoryID, start, end, excludeID).Scan)
	if err == sql.ErrNoRows {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping budget: %w", err)
	}
	return b, nil
}

// Update applies the non-nil fields of params to a budget
func (r *BudgetRepository) Update(ctx context.Context, id string, params budget.UpdateParams) (*budget.Budget, error) {
	query := `
		UPDATE budgets SET
			amount = COALESCE($2, amount),
			start_date = COALESCE($3, start_date),
			end_date = COALESCE($4, end_date),
			warning_threshold = COALESCE($5, warning_threshold),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id`

	var amount any
	if params.Amount != nil {
		amount = *params.Amount
	}

	var returned string
	err := r.db.QueryRowContext(ctx, query, id,
		amount, params.StartDate, params.EndDate, params.WarningThreshold,
	).Scan(&returned)
	if err == sql.ErrNoRows {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return r.GetByID(ctx, returned)
}

// Delete removes a budget
func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

// ListEndingBetween retrieves budgets across all users whose end date falls in [from, to]
func (r *BudgetRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + `
		WHERE b.end_date >= $1 AND b.end_date <= $2
		ORDER BY b.end_date ASC`

	return r.queryBudgets(ctx, query, from, to)
}

func (r *BudgetRepository) queryBudgets(ctx context.Context, query string, args ...any) ([]*budget.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
