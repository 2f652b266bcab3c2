package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"centavo/internal/domain/savings"
)

// SavingsRepository implements savings.Repository for PostgreSQL
type SavingsRepository struct {
	db *DB
}

// NewSavingsRepository creates a new PostgreSQL savings goal repository
func NewSavingsRepository(db *DB) *SavingsRepository {
	return &SavingsRepository{db: db}
}

const goalColumns = `
	id, user_id, name, description, target_amount, current_amount, withdrawn_amount,
	deadline, icon, color, status, completed_at, created_at, updated_at`

func scanGoal(scan func(dest ...any) error) (*savings.Goal, error) {
	var g savings.Goal
	var deadline, completedAt sql.NullTime
	err := scan(
		&g.ID, &g.UserID, &g.Name, &g.Description,
		&g.TargetAmount, &g.CurrentAmount, &g.WithdrawnAmount,
		&deadline, &g.Icon, &g.Color, &g.Status, &completedAt,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		g.Deadline = &deadline.Time
	}
	if completedAt.Valid {
		g.CompletedAt = &completedAt.Time
	}
	return &g, nil
}

// Create creates a new goal
func (r *SavingsRepository) Create(ctx context.Context, params savings.CreateParams) (*savings.Goal, error) {
	query := `
		INSERT INTO savings_goals (id, user_id, name, description, target_amount, deadline, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + goalColumns

	g, err := scanGoal(r.db.QueryRowContext(ctx, query,
		params.ID, params.UserID, params.Name, params.Description,
		params.TargetAmount, params.Deadline, params.Icon, params.Color,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to create savings goal: %w", err)
	}
	return g, nil
}

// GetByID retrieves a goal by its ID
func (r *SavingsRepository) GetByID(ctx context.Context, id string) (*savings.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE id = $1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, savings.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get savings goal: %w", err)
	}
	return g, nil
}

// ListByUserID retrieves a user's goals, newest first, optionally filtered by status
func (r *SavingsRepository) ListByUserID(ctx context.Context, userID int64, status string) ([]*savings.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	return r.queryGoals(ctx, query, userID, status)
}

// Update applies the non-nil fields of params to a goal
func (r *SavingsRepository) Update(ctx context.Context, id string, params savings.UpdateParams, completedAt *time.Time) (*savings.Goal, error) {
	query := `
		UPDATE savings_goals SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			target_amount = COALESCE($4, target_amount),
			deadline = CASE WHEN $6 THEN NULL ELSE COALESCE($5, deadline) END,
			icon = COALESCE($7, icon),
			color = COALESCE($8, color),
			status = COALESCE($9, status),
			completed_at = COALESCE($10, completed_at),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + goalColumns

	var targetAmount any
	if params.TargetAmount != nil {
		targetAmount = *params.TargetAmount
	}

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id,
		params.Name, params.Description, targetAmount,
		params.Deadline, params.ClearDeadline,
		params.Icon, params.Color, params.Status, completedAt,
	).Scan)
	if err == sql.ErrNoRows {
		return nil, savings.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update savings goal: %w", err)
	}
	return g, nil
}

// Delete removes a goal
func (r *SavingsRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete savings goal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return savings.ErrGoalNotFound
	}
	return nil
}

// ListWithDeadlineBetween retrieves goals across all users whose deadline falls in [from, to]
func (r *SavingsRepository) ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]*savings.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals
		WHERE status = $1 AND deadline IS NOT NULL AND deadline >= $2 AND deadline <= $3
		ORDER BY deadline ASC`

	return r.queryGoals(ctx, query, savings.StatusActive, from, to)
}

func (r *SavingsRepository) queryGoals(ctx context.Context, query string, args ...any) ([]*savings.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []*savings.Goal
	for rows.Next() {
		g, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
