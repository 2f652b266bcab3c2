package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"centavo/internal/domain/category"
)

// CategoryRepository implements the category.Repository interface for PostgreSQL
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, category_type, is_active, created_at, updated_at`

func scanCategory(scan func(dest ...any) error) (*category.Category, error) {
	var c category.Category
	err := scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a new active category. The partial unique index on
// (user_id, lower(name), category_type) surfaces concurrent duplicates
// as ErrDuplicateName.
func (r *CategoryRepository) Create(ctx context.Context, params category.CreateParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (id, user_id, name, category_type)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(
		ctx, query, params.ID, params.UserID, params.Name, params.Type,
	).Scan)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, category.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListByUserID retrieves a user's categories filtered by filter
func (r *CategoryRepository) ListByUserID(ctx context.Context, userID int64, filter category.ListFilter) ([]*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1`
	args := []any{userID}

	if !filter.IncludeInactive {
		query += ` AND is_active`
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(` AND category_type = $%d`, len(args))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FindByName finds a category by case-insensitive name and type.
// activeOnly selects which side of the soft-delete flag to search.
func (r *CategoryRepository) FindByName(ctx context.Context, userID int64, name, catType string, activeOnly bool) (*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND lower(name) = lower($2) AND category_type = $3`
	if activeOnly {
		query += ` AND is_active`
	} else {
		query += ` AND NOT is_active`
	}
	query += ` ORDER BY updated_at DESC LIMIT 1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, name, catType).Scan)
	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return c, nil
}

// Rename changes a category's name and type
func (r *CategoryRepository) Rename(ctx context.Context, id, name, catType string) (*category.Category, error) {
	query := `
		UPDATE categories
		SET name = $2, category_type = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id, name, catType).Scan)
	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, category.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to rename category: %w", err)
	}
	return c, nil
}

// SetActive flips a category's active flag
func (r *CategoryRepository) SetActive(ctx context.Context, id string, active bool) (*category.Category, error) {
	query := `
		UPDATE categories
		SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id, active).Scan)
	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, category.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to set category active: %w", err)
	}
	return c, nil
}
