package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type mockRepo struct {
	createFn func(ctx context.Context, params CreateParams) (*Wallet, error)
	getFn    func(ctx context.Context, id string) (*Wallet, error)
	listFn   func(ctx context.Context, userID int64) ([]*Wallet, error)
	updateFn func(ctx context.Context, id string, params UpdateParams) (*Wallet, error)
}

func (m *mockRepo) Create(ctx context.Context, params CreateParams) (*Wallet, error) {
	return m.createFn(ctx, params)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Wallet, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) ListByUserID(ctx context.Context, userID int64) ([]*Wallet, error) {
	return m.listFn(ctx, userID)
}

func (m *mockRepo) Update(ctx context.Context, id string, params UpdateParams) (*Wallet, error) {
	return m.updateFn(ctx, id, params)
}

func TestCreateWallet(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateParams
		wantErr bool
	}{
		{
			name:   "valid cash wallet",
			params: CreateParams{UserID: 1, Name: "Ví tiền mặt", Type: TypeCash},
		},
		{
			name:    "missing name",
			params:  CreateParams{UserID: 1, Type: TypeBank},
			wantErr: true,
		},
		{
			name:    "invalid type",
			params:  CreateParams{UserID: 1, Name: "X", Type: "crypto"},
			wantErr: true,
		},
		{
			name:    "missing user",
			params:  CreateParams{Name: "X", Type: TypeCash},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CreateParams
			repo := &mockRepo{
				createFn: func(_ context.Context, params CreateParams) (*Wallet, error) {
					got = params
					return &Wallet{ID: params.ID, Name: params.Name}, nil
				},
			}
			service := NewService(repo)

			_, err := service.CreateWallet(context.Background(), tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID == "" {
				t.Error("expected a generated wallet ID")
			}
			if got.Currency != "VND" {
				t.Errorf("expected default currency VND, got %q", got.Currency)
			}
			if got.Icon == "" || got.Color == "" {
				t.Error("expected default icon and color")
			}
		})
	}
}

func TestGetWallet_OwnershipHidesOtherUsers(t *testing.T) {
	repo := &mockRepo{
		getFn: func(_ context.Context, id string) (*Wallet, error) {
			return &Wallet{ID: id, UserID: 2}, nil
		},
	}
	service := NewService(repo)

	_, err := service.GetWallet(context.Background(), "w1", 1)
	if !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}

	w, err := service.GetWallet(context.Background(), "w1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != "w1" {
		t.Errorf("expected wallet w1, got %q", w.ID)
	}
}

func TestUpdateWallet(t *testing.T) {
	repo := &mockRepo{
		getFn: func(_ context.Context, id string) (*Wallet, error) {
			return &Wallet{ID: id, UserID: 1, Name: "Old"}, nil
		},
		updateFn: func(_ context.Context, id string, params UpdateParams) (*Wallet, error) {
			return &Wallet{ID: id, UserID: 1, Name: *params.Name}, nil
		},
	}
	service := NewService(repo)

	name := "Ví mới"
	w, err := service.UpdateWallet(context.Background(), "w1", 1, UpdateParams{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Name != "Ví mới" {
		t.Errorf("expected renamed wallet, got %q", w.Name)
	}

	badType := "crypto"
	if _, err := service.UpdateWallet(context.Background(), "w1", 1, UpdateParams{Type: &badType}); !errors.Is(err, ErrInvalidWalletType) {
		t.Errorf("expected ErrInvalidWalletType, got %v", err)
	}

	empty := ""
	if _, err := service.UpdateWallet(context.Background(), "w1", 1, UpdateParams{Name: &empty}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestDeleteWallet_SoftDeletes(t *testing.T) {
	var got UpdateParams
	repo := &mockRepo{
		getFn: func(_ context.Context, id string) (*Wallet, error) {
			return &Wallet{ID: id, UserID: 1, IsActive: true}, nil
		},
		updateFn: func(_ context.Context, id string, params UpdateParams) (*Wallet, error) {
			got = params
			return &Wallet{ID: id, UserID: 1, IsActive: false}, nil
		},
	}
	service := NewService(repo)

	if err := service.DeleteWallet(context.Background(), "w1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsActive == nil || *got.IsActive {
		t.Error("expected the active flag to be cleared")
	}
}

func TestSummarize(t *testing.T) {
	repo := &mockRepo{
		listFn: func(_ context.Context, userID int64) ([]*Wallet, error) {
			return []*Wallet{
				{ID: "w1", Type: TypeCash, Balance: decimal.NewFromInt(500000)},
				{ID: "w2", Type: TypeBank, Balance: decimal.NewFromInt(2000000)},
				{ID: "w3", Type: TypeBank, Balance: decimal.NewFromInt(-100000)},
			}, nil
		},
	}
	service := NewService(repo)

	summary, err := service.Summarize(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.TotalBalance.Equal(decimal.NewFromInt(2400000)) {
		t.Errorf("expected total 2400000, got %s", summary.TotalBalance)
	}
	if summary.TotalWallets != 3 {
		t.Errorf("expected 3 wallets, got %d", summary.TotalWallets)
	}
	bank := summary.WalletsByType[TypeBank]
	if bank.Count != 2 || !bank.Balance.Equal(decimal.NewFromInt(1900000)) {
		t.Errorf("unexpected bank rollup: count=%d balance=%s", bank.Count, bank.Balance)
	}
}
