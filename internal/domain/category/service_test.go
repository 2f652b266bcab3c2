package category

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRepo is an in-memory category store keyed by ID.
type fakeRepo struct {
	rows map[string]*Category
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*Category)}
}

func (f *fakeRepo) Create(_ context.Context, params CreateParams) (*Category, error) {
	c := &Category{ID: params.ID, UserID: params.UserID, Name: params.Name, Type: params.Type, IsActive: true}
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeRepo) ListByUserID(_ context.Context, userID int64, filter ListFilter) ([]*Category, error) {
	var out []*Category
	for _, c := range f.rows {
		if c.UserID != userID {
			continue
		}
		if !filter.IncludeInactive && !c.IsActive {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) FindByName(_ context.Context, userID int64, name, catType string, activeOnly bool) (*Category, error) {
	for _, c := range f.rows {
		if c.UserID != userID || !strings.EqualFold(c.Name, name) || c.Type != catType {
			continue
		}
		if c.IsActive == activeOnly {
			return c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (f *fakeRepo) Rename(_ context.Context, id, name, catType string) (*Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	c.Name = name
	c.Type = catType
	return c, nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) (*Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	c.IsActive = active
	return c, nil
}

func TestCreateCategory(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	result, err := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Ăn uống", Type: TypeExpense})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reactivated {
		t.Error("fresh category should not be marked reactivated")
	}
	if result.Category.ID == "" {
		t.Error("expected a generated category ID")
	}

	// Active duplicate is a conflict
	if _, err := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Ăn uống", Type: TypeExpense}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	// Same name with a different type is fine
	if _, err := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Ăn uống", Type: TypeIncome}); err != nil {
		t.Errorf("unexpected error for other type: %v", err)
	}

	// Another user's namespace is independent
	if _, err := service.CreateCategory(ctx, CreateParams{UserID: 2, Name: "Ăn uống", Type: TypeExpense}); err != nil {
		t.Errorf("unexpected error for other user: %v", err)
	}
}

// failingRepo makes name lookups fail the way a dropped connection would.
type failingRepo struct {
	*fakeRepo
	findErr error
}

func (f *failingRepo) FindByName(context.Context, int64, string, string, bool) (*Category, error) {
	return nil, f.findErr
}

func TestCreateCategory_LookupError(t *testing.T) {
	lookupErr := errors.New("connection reset by peer")
	service := NewService(&failingRepo{fakeRepo: newFakeRepo(), findErr: lookupErr})

	_, err := service.CreateCategory(context.Background(), CreateParams{UserID: 1, Name: "Ăn uống", Type: TypeExpense})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected the name lookup error to surface, got %v", err)
	}
}

func TestCreateCategory_ReactivatesHidden(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	created, err := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Du lịch", Type: TypeExpense})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.DeleteCategory(ctx, created.Category.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "du lịch", Type: TypeExpense})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Reactivated {
		t.Error("expected the hidden category to be reactivated")
	}
	if result.Category.ID != created.Category.ID {
		t.Errorf("expected the original row %q, got %q", created.Category.ID, result.Category.ID)
	}
	if !result.Category.IsActive {
		t.Error("reactivated category should be active")
	}
}

func TestUpdateCategory(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	a, _ := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Lương", Type: TypeIncome})
	b, _ := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Thưởng", Type: TypeIncome})

	// Renaming onto another active category collides
	if _, err := service.UpdateCategory(ctx, b.Category.ID, 1, "Lương", TypeIncome); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	// Renaming to itself is allowed
	if _, err := service.UpdateCategory(ctx, a.Category.ID, 1, "Lương", TypeIncome); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	updated, err := service.UpdateCategory(ctx, b.Category.ID, 1, "Thưởng Tết", TypeIncome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Thưởng Tết" {
		t.Errorf("expected renamed category, got %q", updated.Name)
	}

	// Ownership check
	if _, err := service.UpdateCategory(ctx, a.Category.ID, 2, "X", TypeIncome); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound for other user, got %v", err)
	}
}

func TestRestoreCategory(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	created, _ := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Sách", Type: TypeExpense})
	if err := service.DeleteCategory(ctx, created.Category.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := service.RestoreCategory(ctx, created.Category.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !restored.IsActive {
		t.Error("restored category should be active")
	}

	// Restoring an already active category is rejected
	if _, err := service.RestoreCategory(ctx, created.Category.ID, 1); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestRestoreCategory_NameCollision(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	first, _ := service.CreateCategory(ctx, CreateParams{UserID: 1, Name: "Xe cộ", Type: TypeExpense})
	if err := service.DeleteCategory(ctx, first.Category.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A new active category now claims the name; restoring collides.
	// Create directly through the repo so reactivation does not kick in.
	second := &Category{ID: "c2", UserID: 1, Name: "Xe cộ", Type: TypeExpense, IsActive: true}
	repo.rows[second.ID] = second

	if _, err := service.RestoreCategory(ctx, first.Category.ID, 1); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}
