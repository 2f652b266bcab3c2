package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/category"
	"centavo/internal/domain/ledger"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
)

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	GetByIDFunc       func(ctx context.Context, id string) (*transaction.Transaction, error)
	ListFunc          func(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.View, int, error)
	ListByGoalIDFunc  func(ctx context.Context, userID int64, goalID string) ([]*transaction.View, error)
	ListByYearFunc    func(ctx context.Context, userID int64, year int, walletID string) ([]*transaction.View, error)
	SumByCategoryFunc func(ctx context.Context, userID int64, categoryID string, start, end time.Time) (decimal.Decimal, error)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransactionRepo) List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.View, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	return nil, 0, nil
}

func (m *MockTransactionRepo) ListByGoalID(ctx context.Context, userID int64, goalID string) ([]*transaction.View, error) {
	if m.ListByGoalIDFunc != nil {
		return m.ListByGoalIDFunc(ctx, userID, goalID)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByYear(ctx context.Context, userID int64, year int, walletID string) ([]*transaction.View, error) {
	if m.ListByYearFunc != nil {
		return m.ListByYearFunc(ctx, userID, year, walletID)
	}
	return nil, nil
}

func (m *MockTransactionRepo) SumByCategory(ctx context.Context, userID int64, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	if m.SumByCategoryFunc != nil {
		return m.SumByCategoryFunc(ctx, userID, categoryID, start, end)
	}
	return decimal.Zero, nil
}

func TestHandleListTransactions(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		checkFilter    func(t *testing.T, filter transaction.ListFilter)
	}{
		{
			name:           "Defaults",
			query:          "",
			expectedStatus: http.StatusOK,
			checkFilter: func(t *testing.T, filter transaction.ListFilter) {
				if filter.Page != 1 || filter.Limit != defaultPageSize {
					t.Errorf("expected defaults page=1 limit=%d, got page=%d limit=%d", defaultPageSize, filter.Page, filter.Limit)
				}
			},
		},
		{
			name:           "Date Range",
			query:          "?startDate=2025-01-01&endDate=2025-01-31",
			expectedStatus: http.StatusOK,
			checkFilter: func(t *testing.T, filter transaction.ListFilter) {
				if filter.StartDate == nil || filter.EndDate == nil {
					t.Fatal("expected both dates to be set")
				}
				// End date is inclusive through the last instant of the day
				if filter.EndDate.Day() != 31 || filter.EndDate.Hour() != 23 {
					t.Errorf("expected end of day Jan 31, got %s", filter.EndDate)
				}
			},
		},
		{
			name:           "Limit Capped",
			query:          "?limit=500",
			expectedStatus: http.StatusOK,
			checkFilter: func(t *testing.T, filter transaction.ListFilter) {
				if filter.Limit != maxPageSize {
					t.Errorf("expected limit capped at %d, got %d", maxPageSize, filter.Limit)
				}
			},
		},
		{
			name:           "Bad Start Date",
			query:          "?startDate=01-01-2025",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad Page",
			query:          "?page=0",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured transaction.ListFilter
			repo := &MockTransactionRepo{
				ListFunc: func(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.View, int, error) {
					captured = filter
					return nil, 0, nil
				},
			}
			handler := NewTransactionHandler(repo, nil)

			req := authedRequest(http.MethodGet, "/api/transactions"+tt.query, nil, 1)
			rr := httptest.NewRecorder()
			handler.HandleTransactions(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.checkFilter != nil {
				tt.checkFilter(t, captured)
			}
		})
	}
}

func TestHandleListTransactions_EmptyPage(t *testing.T) {
	repo := &MockTransactionRepo{
		ListFunc: func(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.View, int, error) {
			return nil, 0, nil
		},
	}
	handler := NewTransactionHandler(repo, nil)

	req := authedRequest(http.MethodGet, "/api/transactions", nil, 1)
	rr := httptest.NewRecorder()
	handler.HandleTransactions(rr, req)

	var resp TransactionListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Transactions == nil {
		t.Error("expected empty array, not null")
	}
	if resp.Pagination.TotalPages != 0 {
		t.Errorf("expected 0 total pages, got %d", resp.Pagination.TotalPages)
	}
}

func TestHandleCreateTransaction(t *testing.T) {
	seed := func() *fakeLedgerStore {
		store := newFakeLedgerStore()
		store.wallets["w1"] = &wallet.Wallet{ID: "w1", UserID: 1, Name: "Ví tiền mặt", Type: wallet.TypeCash, Balance: decimal.NewFromInt(100000), Currency: "VND", IsActive: true}
		store.categories["c1"] = &category.Category{ID: "c1", UserID: 1, Name: "ăn uống", Type: category.TypeExpense, IsActive: true}
		return store
	}

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"categoryId":"c1","walletId":"w1","amount":"45000","note":"Cơm trưa","transactionDate":"2025-08-12"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Defaults Date To Now",
			body:           `{"categoryId":"c1","walletId":"w1","amount":"45000"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Negative Amount",
			body:           `{"categoryId":"c1","walletId":"w1","amount":"-5"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown Category",
			body:           `{"categoryId":"c9","walletId":"w1","amount":"45000"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Unknown Wallet",
			body:           `{"categoryId":"c1","walletId":"w9","amount":"45000"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Bad Date",
			body:           `{"categoryId":"c1","walletId":"w1","amount":"45000","transactionDate":"12/08/2025"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			ledgerService := ledger.NewService(store, ledger.NopAlerter{})
			handler := NewTransactionHandler(&MockTransactionRepo{}, ledgerService)

			req := authedRequest(http.MethodPost, "/api/transactions", []byte(tt.body), 1)
			rr := httptest.NewRecorder()
			handler.HandleTransactions(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v, body %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleCreateTransaction_DebitsWallet(t *testing.T) {
	store := newFakeLedgerStore()
	store.wallets["w1"] = &wallet.Wallet{ID: "w1", UserID: 1, Name: "Ví tiền mặt", Type: wallet.TypeCash, Balance: decimal.NewFromInt(100000), Currency: "VND", IsActive: true}
	store.categories["c1"] = &category.Category{ID: "c1", UserID: 1, Name: "ăn uống", Type: category.TypeExpense, IsActive: true}

	ledgerService := ledger.NewService(store, ledger.NopAlerter{})
	handler := NewTransactionHandler(&MockTransactionRepo{}, ledgerService)

	body := `{"categoryId":"c1","walletId":"w1","amount":"45000","note":"Cơm trưa"}`
	req := authedRequest(http.MethodPost, "/api/transactions", []byte(body), 1)
	rr := httptest.NewRecorder()
	handler.HandleTransactions(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusCreated)
	}
	if !store.wallets["w1"].Balance.Equal(decimal.NewFromInt(55000)) {
		t.Errorf("expected wallet balance 55000 after expense, got %s", store.wallets["w1"].Balance)
	}
}

func TestHandleDeleteTransaction(t *testing.T) {
	goalID := "g1"
	transferID := "tr1"

	seed := func() *fakeLedgerStore {
		store := newFakeLedgerStore()
		store.wallets["w1"] = &wallet.Wallet{ID: "w1", UserID: 1, Type: wallet.TypeCash, Balance: decimal.NewFromInt(100000), IsActive: true}
		store.wallets["w2"] = &wallet.Wallet{ID: "w2", UserID: 1, Type: wallet.TypeBank, Balance: decimal.NewFromInt(50000), IsActive: true}
		store.categories["c1"] = &category.Category{ID: "c1", UserID: 1, Name: "ăn uống", Type: category.TypeExpense, IsActive: true}
		catID := "c1"
		store.entries["t1"] = &transaction.Transaction{ID: "t1", UserID: 1, CategoryID: &catID, WalletID: "w1", Amount: decimal.NewFromInt(20000), Kind: transaction.KindNormal}
		store.entries["t2"] = &transaction.Transaction{ID: "t2", UserID: 1, WalletID: "w1", Amount: decimal.NewFromInt(30000), Kind: transaction.KindNormal, SavingsGoalID: &goalID}
		store.entries["t3"] = &transaction.Transaction{ID: "t3", UserID: 1, CategoryID: &catID, WalletID: "w1", Amount: decimal.NewFromInt(10000), Kind: transaction.KindTransferOut, TransferID: &transferID}
		store.entries["t4"] = &transaction.Transaction{ID: "t4", UserID: 1, CategoryID: &catID, WalletID: "w2", Amount: decimal.NewFromInt(10000), Kind: transaction.KindTransferIn, TransferID: &transferID}
		return store
	}

	tests := []struct {
		name           string
		entryID        string
		expectedStatus int
	}{
		{name: "Normal Entry", entryID: "t1", expectedStatus: http.StatusNoContent},
		{name: "Savings Entry Rejected", entryID: "t2", expectedStatus: http.StatusConflict},
		{name: "Transfer Leg", entryID: "t3", expectedStatus: http.StatusNoContent},
		{name: "Not Found", entryID: "t9", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			ledgerService := ledger.NewService(store, ledger.NopAlerter{})
			handler := NewTransactionHandler(&MockTransactionRepo{}, ledgerService)

			req := authedRequest(http.MethodDelete, "/api/transactions/"+tt.entryID, nil, 1)
			req.SetPathValue("id", tt.entryID)
			rr := httptest.NewRecorder()
			handler.HandleTransactionByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleDeleteTransaction_RemovesBothTransferLegs(t *testing.T) {
	transferID := "tr1"
	store := newFakeLedgerStore()
	store.wallets["w1"] = &wallet.Wallet{ID: "w1", UserID: 1, Type: wallet.TypeCash, Balance: decimal.NewFromInt(90000), IsActive: true}
	store.wallets["w2"] = &wallet.Wallet{ID: "w2", UserID: 1, Type: wallet.TypeBank, Balance: decimal.NewFromInt(60000), IsActive: true}
	store.entries["t3"] = &transaction.Transaction{ID: "t3", UserID: 1, WalletID: "w1", Amount: decimal.NewFromInt(10000), Kind: transaction.KindTransferOut, TransferID: &transferID}
	store.entries["t4"] = &transaction.Transaction{ID: "t4", UserID: 1, WalletID: "w2", Amount: decimal.NewFromInt(10000), Kind: transaction.KindTransferIn, TransferID: &transferID}

	ledgerService := ledger.NewService(store, ledger.NopAlerter{})
	handler := NewTransactionHandler(&MockTransactionRepo{}, ledgerService)

	req := authedRequest(http.MethodDelete, "/api/transactions/t4", nil, 1)
	req.SetPathValue("id", "t4")
	rr := httptest.NewRecorder()
	handler.HandleTransactionByID(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNoContent)
	}
	if len(store.entries) != 0 {
		t.Errorf("expected both legs removed, %d entries remain", len(store.entries))
	}
	if !store.wallets["w1"].Balance.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected source balance restored to 100000, got %s", store.wallets["w1"].Balance)
	}
	if !store.wallets["w2"].Balance.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("expected destination balance restored to 50000, got %s", store.wallets["w2"].Balance)
	}
}
