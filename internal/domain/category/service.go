package category

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Service contains the business logic for category operations
type Service struct {
	repo Repository
}

// NewService creates a new category service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateResult reports whether an existing hidden category was
// reactivated instead of a new row being created.
type CreateResult struct {
	Category    *Category
	Reactivated bool
}

// CreateCategory creates a category. If an inactive category with the
// same case-insensitive name and type exists, it is reactivated instead.
// An active duplicate is a conflict.
func (s *Service) CreateCategory(ctx context.Context, params CreateParams) (*CreateResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Reactivate a hidden category rather than stacking duplicates
	hidden, err := s.repo.FindByName(ctx, params.UserID, params.Name, params.Type, false)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}
	if hidden != nil {
		restored, err := s.repo.SetActive(ctx, hidden.ID, true)
		if err != nil {
			return nil, err
		}
		return &CreateResult{Category: restored, Reactivated: true}, nil
	}

	existing, err := s.repo.FindByName(ctx, params.UserID, params.Name, params.Type, true)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	params.ID = uuid.NewString()
	created, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Category: created}, nil
}

// GetCategory retrieves a category by ID and verifies ownership
func (s *Service) GetCategory(ctx context.Context, categoryID string, userID int64) (*Category, error) {
	c, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// ListCategories retrieves a user's categories
func (s *Service) ListCategories(ctx context.Context, userID int64, filter ListFilter) ([]*Category, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	if filter.Type != "" && !IsValidType(filter.Type) {
		filter.Type = ""
	}
	return s.repo.ListByUserID(ctx, userID, filter)
}

// UpdateCategory renames a category after checking for name collisions
func (s *Service) UpdateCategory(ctx context.Context, categoryID string, userID int64, name, catType string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}
	if !IsValidType(catType) {
		return nil, ErrInvalidType
	}

	c, err := s.GetCategory(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}

	dup, err := s.repo.FindByName(ctx, userID, name, catType, true)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}
	if dup != nil && dup.ID != c.ID {
		return nil, ErrDuplicateName
	}

	return s.repo.Rename(ctx, c.ID, name, catType)
}

// DeleteCategory hides a category (soft delete)
func (s *Service) DeleteCategory(ctx context.Context, categoryID string, userID int64) error {
	c, err := s.GetCategory(ctx, categoryID, userID)
	if err != nil {
		return err
	}
	_, err = s.repo.SetActive(ctx, c.ID, false)
	return err
}

// RestoreCategory reactivates a hidden category. The restore is rejected
// when an active category with the same name and type already exists.
func (s *Service) RestoreCategory(ctx context.Context, categoryID string, userID int64) (*Category, error) {
	c, err := s.GetCategory(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}
	if c.IsActive {
		return nil, ErrCategoryNotFound
	}

	active, err := s.repo.FindByName(ctx, userID, c.Name, c.Type, true)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}
	if active != nil && active.ID != c.ID {
		return nil, ErrDuplicateName
	}

	return s.repo.SetActive(ctx, c.ID, true)
}
