package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/budget"
	"centavo/internal/domain/category"
	"centavo/internal/shared/middleware"
)

type BudgetHandler struct {
	budgets *budget.Service
}

func NewBudgetHandler(budgets *budget.Service) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

type CreateBudgetRequest struct {
	CategoryID       string          `json:"categoryId"`
	Amount           decimal.Decimal `json:"amount"`
	Period           string          `json:"period"`
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	WarningThreshold int             `json:"warningThreshold"`
}

type UpdateBudgetRequest struct {
	Amount           *decimal.Decimal `json:"amount"`
	StartDate        *string          `json:"startDate"`
	EndDate          *string          `json:"endDate"`
	WarningThreshold *int             `json:"warningThreshold"`
}

// HandleBudgets handles the budget collection (GET list, POST create)
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListBudgets(w, r, userID)
	case http.MethodPost:
		h.handleCreateBudget(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleListBudgets(w http.ResponseWriter, r *http.Request, userID int64) {
	budgets, err := h.budgets.ListBudgets(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing budgets for user %d: %v", userID, err)
		http.Error(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budgets)
}

// HandleActiveBudgets lists the budgets covering the current instant
func (h *BudgetHandler) HandleActiveBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	budgets, err := h.budgets.ListActiveBudgets(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing active budgets for user %d: %v", userID, err)
		http.Error(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budgets)
}

func (h *BudgetHandler) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	created, err := h.budgets.CreateBudget(r.Context(), budget.CreateParams{
		UserID:           userID,
		CategoryID:       req.CategoryID,
		Amount:           req.Amount,
		Period:           req.Period,
		StartDate:        startDate,
		EndDate:          endDate,
		WarningThreshold: req.WarningThreshold,
	})
	if err != nil {
		switch {
		case errors.Is(err, category.ErrCategoryNotFound):
			http.Error(w, "Category not found", http.StatusNotFound)
		case errors.Is(err, budget.ErrOverlappingPeriod):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// HandleBudgetByID handles GET, PUT, and DELETE on a single budget
func (h *BudgetHandler) HandleBudgetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	budgetID := r.PathValue("id")
	if budgetID == "" {
		http.Error(w, "Budget ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetBudget(w, r, userID, budgetID)
	case http.MethodPut:
		h.handleUpdateBudget(w, r, userID, budgetID)
	case http.MethodDelete:
		h.handleDeleteBudget(w, r, userID, budgetID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleGetBudget(w http.ResponseWriter, r *http.Request, userID int64, budgetID string) {
	found, err := h.budgets.GetBudget(r.Context(), budgetID, userID)
	if err != nil {
		http.Error(w, "Budget not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(found)
}

func (h *BudgetHandler) handleUpdateBudget(w http.ResponseWriter, r *http.Request, userID int64, budgetID string) {
	var req UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := budget.UpdateParams{
		Amount:           req.Amount,
		WarningThreshold: req.WarningThreshold,
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.EndDate = &endDate
	}

	updated, err := h.budgets.UpdateBudget(r.Context(), budgetID, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, budget.ErrBudgetNotFound):
			http.Error(w, "Budget not found", http.StatusNotFound)
		case errors.Is(err, budget.ErrOverlappingPeriod):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *BudgetHandler) handleDeleteBudget(w http.ResponseWriter, r *http.Request, userID int64, budgetID string) {
	if err := h.budgets.DeleteBudget(r.Context(), budgetID, userID); err != nil {
		if errors.Is(err, budget.ErrBudgetNotFound) {
			http.Error(w, "Budget not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting budget %s: %v", budgetID, err)
		http.Error(w, "Failed to delete budget", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
