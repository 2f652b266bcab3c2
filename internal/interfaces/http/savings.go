package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/ledger"
	"centavo/internal/domain/savings"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
	"centavo/internal/shared/middleware"
)

type SavingsHandler struct {
	goals  *savings.Service
	ledger *ledger.Service
}

func NewSavingsHandler(goals *savings.Service, ledgerService *ledger.Service) *SavingsHandler {
	return &SavingsHandler{goals: goals, ledger: ledgerService}
}

type CreateGoalRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     *string         `json:"deadline"`
	Icon         string          `json:"icon"`
	Color        string          `json:"color"`
}

type UpdateGoalRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	Deadline      *string          `json:"deadline"`
	ClearDeadline bool             `json:"clearDeadline"`
	Icon          *string          `json:"icon"`
	Color         *string          `json:"color"`
	Status        *string          `json:"status"`
}

type GoalMoneyRequest struct {
	WalletID string          `json:"walletId"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

// HandleGoals handles the goal collection (GET list, POST create)
func (h *SavingsHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListGoals(w, r, userID)
	case http.MethodPost:
		h.handleCreateGoal(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SavingsHandler) handleListGoals(w http.ResponseWriter, r *http.Request, userID int64) {
	goals, err := h.goals.ListGoals(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, savings.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error listing goals for user %d: %v", userID, err)
		http.Error(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

func (h *SavingsHandler) handleCreateGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := savings.CreateParams{
		UserID:       userID,
		Name:         req.Name,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		Icon:         req.Icon,
		Color:        req.Color,
	}
	if req.Deadline != nil && *req.Deadline != "" {
		deadline, err := parseDate(*req.Deadline)
		if err != nil {
			http.Error(w, "deadline must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.Deadline = &deadline
	}

	created, err := h.goals.CreateGoal(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(savings.NewView(created))
}

// HandleGoalByID handles GET, PUT, and DELETE on a single goal
func (h *SavingsHandler) HandleGoalByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := r.PathValue("id")
	if goalID == "" {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetGoal(w, r, userID, goalID)
	case http.MethodPut:
		h.handleUpdateGoal(w, r, userID, goalID)
	case http.MethodDelete:
		h.handleDeleteGoal(w, r, userID, goalID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SavingsHandler) handleGetGoal(w http.ResponseWriter, r *http.Request, userID int64, goalID string) {
	goal, err := h.goals.GetGoal(r.Context(), goalID, userID)
	if err != nil {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(savings.NewView(goal))
}

func (h *SavingsHandler) handleUpdateGoal(w http.ResponseWriter, r *http.Request, userID int64, goalID string) {
	var req UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := savings.UpdateParams{
		Name:          req.Name,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		ClearDeadline: req.ClearDeadline,
		Icon:          req.Icon,
		Color:         req.Color,
		Status:        req.Status,
	}
	if req.Deadline != nil && *req.Deadline != "" {
		deadline, err := parseDate(*req.Deadline)
		if err != nil {
			http.Error(w, "deadline must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.Deadline = &deadline
	}

	updated, err := h.goals.UpdateGoal(r.Context(), goalID, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, savings.ErrGoalNotFound):
			http.Error(w, "Goal not found", http.StatusNotFound)
		case errors.Is(err, savings.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(savings.NewView(updated))
}

func (h *SavingsHandler) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID int64, goalID string) {
	if err := h.goals.DeleteGoal(r.Context(), goalID, userID); err != nil {
		switch {
		case errors.Is(err, savings.ErrGoalNotFound):
			http.Error(w, "Goal not found", http.StatusNotFound)
		case errors.Is(err, savings.ErrGoalHasFunds):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error deleting goal %s: %v", goalID, err)
			http.Error(w, "Failed to delete goal", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleContribute moves money from a wallet into a goal
func (h *SavingsHandler) HandleContribute(w http.ResponseWriter, r *http.Request) {
	h.handleGoalMoney(w, r, h.ledger.Contribute)
}

// HandleWithdraw moves money from a goal back into a wallet
func (h *SavingsHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.handleGoalMoney(w, r, h.ledger.Withdraw)
}

func (h *SavingsHandler) handleGoalMoney(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, params ledger.SavingsParams) (*ledger.SavingsResult, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := r.PathValue("id")
	if goalID == "" {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	var req GoalMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := op(r.Context(), ledger.SavingsParams{
		UserID:   userID,
		GoalID:   goalID,
		WalletID: req.WalletID,
		Amount:   req.Amount,
		Note:     req.Note,
	})
	if err != nil {
		var insufficientWallet *ledger.InsufficientFundsError
		var insufficientGoal *savings.InsufficientGoalError
		switch {
		case errors.As(err, &insufficientWallet):
			http.Error(w, insufficientWallet.Error(), http.StatusBadRequest)
		case errors.As(err, &insufficientGoal):
			http.Error(w, insufficientGoal.Error(), http.StatusBadRequest)
		case errors.Is(err, transaction.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, savings.ErrGoalNotFound):
			http.Error(w, "Goal not found", http.StatusNotFound)
		case errors.Is(err, wallet.ErrWalletNotFound):
			http.Error(w, "Wallet not found", http.StatusNotFound)
		case errors.Is(err, savings.ErrGoalNotActive):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error moving goal money for user %d goal %s: %v", userID, goalID, err)
			http.Error(w, "Failed to update goal", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleGoalTransactions lists the ledger entries tagged with a goal
func (h *SavingsHandler) HandleGoalTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := r.PathValue("id")
	if goalID == "" {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	entries, err := h.goals.ListGoalTransactions(r.Context(), goalID, userID)
	if err != nil {
		if errors.Is(err, savings.ErrGoalNotFound) {
			http.Error(w, "Goal not found", http.StatusNotFound)
			return
		}
		log.Printf("Error listing goal transactions for goal %s: %v", goalID, err)
		http.Error(w, "Failed to list goal transactions", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*transaction.View{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
