package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/category"
	"centavo/internal/domain/ledger"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
	"centavo/internal/shared/middleware"
)

// Listing defaults
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type TransactionHandler struct {
	transactions transaction.Repository
	ledger       *ledger.Service
}

func NewTransactionHandler(transactions transaction.Repository, ledgerService *ledger.Service) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, ledger: ledgerService}
}

type CreateTransactionRequest struct {
	CategoryID      string          `json:"categoryId"`
	WalletID        string          `json:"walletId"`
	Amount          decimal.Decimal `json:"amount"`
	Note            string          `json:"note"`
	TransactionDate string          `json:"transactionDate"`
}

type TransactionListResponse struct {
	Transactions []*transaction.View    `json:"transactions"`
	Pagination   transaction.Pagination `json:"pagination"`
}

// HandleTransactions handles the transaction collection (GET list, POST create)
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListTransactions(w, r, userID)
	case http.MethodPost:
		h.handleCreateTransaction(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) handleListTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, err := parseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	views, total, err := h.transactions.List(r.Context(), userID, filter)
	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", userID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if views == nil {
		views = []*transaction.View{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TransactionListResponse{
		Transactions: views,
		Pagination:   transaction.NewPagination(filter.Page, filter.Limit, total),
	})
}

func parseListFilter(r *http.Request) (transaction.ListFilter, error) {
	q := r.URL.Query()
	filter := transaction.ListFilter{
		CategoryID:   q.Get("categoryId"),
		CategoryType: q.Get("type"),
		WalletID:     q.Get("walletId"),
		Search:       q.Get("search"),
		Page:         1,
		Limit:        defaultPageSize,
	}

	if v := q.Get("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("startDate must be YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("endDate must be YYYY-MM-DD")
		}
		// Inclusive through the end of the day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return filter, errors.New("page must be a positive integer")
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, errors.New("limit must be a positive integer")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		filter.Limit = limit
	}
	return filter, nil
}

func (h *TransactionHandler) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	txDate := time.Now()
	if req.TransactionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TransactionDate)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, req.TransactionDate)
		}
		if err != nil {
			http.Error(w, "transactionDate must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}
		txDate = parsed
	}

	created, err := h.ledger.Record(r.Context(), ledger.RecordParams{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		WalletID:        req.WalletID,
		Amount:          req.Amount,
		Note:            req.Note,
		TransactionDate: txDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, category.ErrCategoryNotFound):
			http.Error(w, "Category not found", http.StatusNotFound)
		case errors.Is(err, wallet.ErrWalletNotFound):
			http.Error(w, "Wallet not found", http.StatusNotFound)
		default:
			log.Printf("Error creating transaction for user %d: %v", userID, err)
			http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// HandleTransactionByID handles DELETE on a single transaction.
// Rows are immutable, so there is no update.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entryID := r.PathValue("id")
	if entryID == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.Delete(r.Context(), entryID, userID); err != nil {
		switch {
		case errors.Is(err, transaction.ErrTransactionNotFound):
			http.Error(w, "Transaction not found", http.StatusNotFound)
		case errors.Is(err, transaction.ErrSavingsEntry):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error deleting transaction %s: %v", entryID, err)
			http.Error(w, "Failed to delete transaction", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
