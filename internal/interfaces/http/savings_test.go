package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/ledger"
	"centavo/internal/domain/savings"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
)

// MockSavingsRepo implements savings.Repository for testing
type MockSavingsRepo struct {
	CreateFunc                  func(ctx context.Context, params savings.CreateParams) (*savings.Goal, error)
	GetByIDFunc                 func(ctx context.Context, id string) (*savings.Goal, error)
	ListByUserIDFunc            func(ctx context.Context, userID int64, status string) ([]*savings.Goal, error)
	UpdateFunc                  func(ctx context.Context, id string, params savings.UpdateParams, completedAt *time.Time) (*savings.Goal, error)
	DeleteFunc                  func(ctx context.Context, id string) error
	ListWithDeadlineBetweenFunc func(ctx context.Context, from, to time.Time) ([]*savings.Goal, error)
}

func (m *MockSavingsRepo) Create(ctx context.Context, params savings.CreateParams) (*savings.Goal, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockSavingsRepo) GetByID(ctx context.Context, id string) (*savings.Goal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSavingsRepo) ListByUserID(ctx context.Context, userID int64, status string) ([]*savings.Goal, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, status)
	}
	return nil, nil
}

func (m *MockSavingsRepo) Update(ctx context.Context, id string, params savings.UpdateParams, completedAt *time.Time) (*savings.Goal, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params, completedAt)
	}
	return nil, nil
}

func (m *MockSavingsRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockSavingsRepo) ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]*savings.Goal, error) {
	if m.ListWithDeadlineBetweenFunc != nil {
		return m.ListWithDeadlineBetweenFunc(ctx, from, to)
	}
	return nil, nil
}

func TestHandleGoals(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		mockRepo       func() *MockSavingsRepo
		expectedStatus int
	}{
		{
			name:   "List Success",
			method: http.MethodGet,
			target: "/api/savings-goals",
			mockRepo: func() *MockSavingsRepo {
				return &MockSavingsRepo{
					ListByUserIDFunc: func(ctx context.Context, userID int64, status string) ([]*savings.Goal, error) {
						return []*savings.Goal{
							{ID: "g1", UserID: 1, Name: "Mua xe", TargetAmount: decimal.NewFromInt(50000000), Status: savings.StatusActive},
						}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "List Invalid Status",
			method:         http.MethodGet,
			target:         "/api/savings-goals?status=paused",
			mockRepo:       func() *MockSavingsRepo { return &MockSavingsRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Create Success",
			method: http.MethodPost,
			target: "/api/savings-goals",
			body:   `{"name":"Mua xe","targetAmount":"50000000","deadline":"2026-12-31"}`,
			mockRepo: func() *MockSavingsRepo {
				return &MockSavingsRepo{
					CreateFunc: func(ctx context.Context, params savings.CreateParams) (*savings.Goal, error) {
						return &savings.Goal{ID: params.ID, UserID: params.UserID, Name: params.Name, TargetAmount: params.TargetAmount, Status: savings.StatusActive, Deadline: params.Deadline}, nil
					},
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Create Missing Target",
			method:         http.MethodPost,
			target:         "/api/savings-goals",
			body:           `{"name":"Mua xe"}`,
			mockRepo:       func() *MockSavingsRepo { return &MockSavingsRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Create Bad Deadline",
			method:         http.MethodPost,
			target:         "/api/savings-goals",
			body:           `{"name":"Mua xe","targetAmount":"50000000","deadline":"31/12/2026"}`,
			mockRepo:       func() *MockSavingsRepo { return &MockSavingsRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := savings.NewService(tt.mockRepo(), &MockTransactionRepo{})
			handler := NewSavingsHandler(service, nil)

			var body []byte
			if tt.body != "" {
				body = []byte(tt.body)
			}
			req := authedRequest(tt.method, tt.target, body, 1)
			rr := httptest.NewRecorder()
			handler.HandleGoals(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleGoalByID_Delete(t *testing.T) {
	tests := []struct {
		name           string
		goalID         string
		mockRepo       func() *MockSavingsRepo
		expectedStatus int
	}{
		{
			name:   "Empty Goal Deleted",
			goalID: "g1",
			mockRepo: func() *MockSavingsRepo {
				return &MockSavingsRepo{
					GetByIDFunc: func(ctx context.Context, id string) (*savings.Goal, error) {
						return &savings.Goal{ID: id, UserID: 1, Status: savings.StatusActive, CurrentAmount: decimal.Zero}, nil
					},
				}
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "Funded Goal Rejected",
			goalID: "g2",
			mockRepo: func() *MockSavingsRepo {
				return &MockSavingsRepo{
					GetByIDFunc: func(ctx context.Context, id string) (*savings.Goal, error) {
						return &savings.Goal{ID: id, UserID: 1, Status: savings.StatusActive, CurrentAmount: decimal.NewFromInt(100000)}, nil
					},
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:   "Other User's Goal Hidden",
			goalID: "g3",
			mockRepo: func() *MockSavingsRepo {
				return &MockSavingsRepo{
					GetByIDFunc: func(ctx context.Context, id string) (*savings.Goal, error) {
						return &savings.Goal{ID: id, UserID: 2, Status: savings.StatusActive, CurrentAmount: decimal.Zero}, nil
					},
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := savings.NewService(tt.mockRepo(), &MockTransactionRepo{})
			handler := NewSavingsHandler(service, nil)

			req := authedRequest(http.MethodDelete, "/api/savings-goals/"+tt.goalID, nil, 1)
			req.SetPathValue("id", tt.goalID)
			rr := httptest.NewRecorder()
			handler.HandleGoalByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleContribute(t *testing.T) {
	seed := func() *fakeLedgerStore {
		store := newFakeLedgerStore()
		store.wallets["w1"] = &wallet.Wallet{ID: "w1", UserID: 1, Name: "Ví tiền mặt", Type: wallet.TypeCash, Balance: decimal.NewFromInt(500000), Currency: "VND", IsActive: true}
		store.goals["g1"] = &savings.Goal{ID: "g1", UserID: 1, Name: "Mua xe", TargetAmount: decimal.NewFromInt(1000000), CurrentAmount: decimal.NewFromInt(200000), Status: savings.StatusActive}
		store.goals["g2"] = &savings.Goal{ID: "g2", UserID: 1, Name: "Đã hủy", TargetAmount: decimal.NewFromInt(1000000), Status: savings.StatusCancelled}
		return store
	}

	tests := []struct {
		name           string
		goalID         string
		body           string
		expectedStatus int
	}{
		{
			name:           "Success",
			goalID:         "g1",
			body:           `{"walletId":"w1","amount":"100000"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Insufficient Wallet Funds",
			goalID:         "g1",
			body:           `{"walletId":"w1","amount":"900000"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Inactive Goal",
			goalID:         "g2",
			body:           `{"walletId":"w1","amount":"100000"}`,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Unknown Goal",
			goalID:         "g9",
			body:           `{"walletId":"w1","amount":"100000"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Unknown Wallet",
			goalID:         "g1",
			body:           `{"walletId":"w9","amount":"100000"}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			ledgerService := ledger.NewService(store, ledger.NopAlerter{})
			handler := NewSavingsHandler(savings.NewService(&MockSavingsRepo{}, &MockTransactionRepo{}), ledgerService)

			req := authedRequest(http.MethodPost, "/api/savings-goals/"+tt.goalID+"/contribute", []byte(tt.body), 1)
			req.SetPathValue("id", tt.goalID)
			rr := httptest.NewRecorder()
			handler.HandleContribute(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v, body %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleContribute_CompletesGoalAtTarget(t *testing.T) {
	store := newFakeLedgerStore()
	store.wallets["w1"] = &wallet.Wallet{ID: "w1", UserID: 1, Type: wallet.TypeCash, Balance: decimal.NewFromInt(500000), IsActive: true}
	store.goals["g1"] = &savings.Goal{ID: "g1", UserID: 1, Name: "Mua xe", TargetAmount: decimal.NewFromInt(500000), CurrentAmount: decimal.NewFromInt(400000), Status: savings.StatusActive}

	ledgerService := ledger.NewService(store, ledger.NopAlerter{})
	handler := NewSavingsHandler(savings.NewService(&MockSavingsRepo{}, &MockTransactionRepo{}), ledgerService)

	body := `{"walletId":"w1","amount":"100000"}`
	req := authedRequest(http.MethodPost, "/api/savings-goals/g1/contribute", []byte(body), 1)
	req.SetPathValue("id", "g1")
	rr := httptest.NewRecorder()
	handler.HandleContribute(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var result ledger.SavingsResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Goal.Status != savings.StatusCompleted {
		t.Errorf("expected goal completed, got status %q", result.Goal.Status)
	}
	if result.Goal.CompletedAt == nil {
		t.Error("expected completedAt to be stamped")
	}
	if !store.wallets["w1"].Balance.Equal(decimal.NewFromInt(400000)) {
		t.Errorf("expected wallet balance 400000, got %s", store.wallets["w1"].Balance)
	}
	if result.Entry.SavingsGoalID == nil || *result.Entry.SavingsGoalID != "g1" {
		t.Error("expected ledger entry tagged with the goal")
	}
}

func TestHandleWithdraw(t *testing.T) {
	seed := func() *fakeLedgerStore {
		store := newFakeLedgerStore()
		store.wallets["w1"] = &wallet.Wallet{ID: "w1", UserID: 1, Type: wallet.TypeCash, Balance: decimal.NewFromInt(100000), IsActive: true}
		store.goals["g1"] = &savings.Goal{ID: "g1", UserID: 1, Name: "Mua xe", TargetAmount: decimal.NewFromInt(1000000), CurrentAmount: decimal.NewFromInt(300000), Status: savings.StatusActive}
		return store
	}

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"walletId":"w1","amount":"200000"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "More Than Saved",
			body:           `{"walletId":"w1","amount":"400000"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Zero Amount",
			body:           `{"walletId":"w1","amount":"0"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			ledgerService := ledger.NewService(store, ledger.NopAlerter{})
			handler := NewSavingsHandler(savings.NewService(&MockSavingsRepo{}, &MockTransactionRepo{}), ledgerService)

			req := authedRequest(http.MethodPost, "/api/savings-goals/g1/withdraw", []byte(tt.body), 1)
			req.SetPathValue("id", "g1")
			rr := httptest.NewRecorder()
			handler.HandleWithdraw(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleGoalTransactions(t *testing.T) {
	repo := &MockSavingsRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*savings.Goal, error) {
			return &savings.Goal{ID: id, UserID: 1, Status: savings.StatusActive}, nil
		},
	}
	txRepo := &MockTransactionRepo{
		ListByGoalIDFunc: func(ctx context.Context, userID int64, goalID string) ([]*transaction.View, error) {
			return nil, nil
		},
	}
	handler := NewSavingsHandler(savings.NewService(repo, txRepo), nil)

	req := authedRequest(http.MethodGet, "/api/savings-goals/g1/transactions", nil, 1)
	req.SetPathValue("id", "g1")
	rr := httptest.NewRecorder()
	handler.HandleGoalTransactions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if body := rr.Body.String(); body[0] != '[' {
		t.Errorf("expected a JSON array, got %s", body)
	}
}
