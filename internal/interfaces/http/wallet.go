package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/ledger"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
	"centavo/internal/shared/middleware"
)

type WalletHandler struct {
	wallets *wallet.Service
	ledger  *ledger.Service
}

func NewWalletHandler(wallets *wallet.Service, ledgerService *ledger.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets, ledger: ledgerService}
}

type CreateWalletRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
}

type UpdateWalletRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Currency    *string `json:"currency"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

type TransferRequest struct {
	FromWalletID string          `json:"fromWalletId"`
	ToWalletID   string          `json:"toWalletId"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
}

// HandleWallets handles the wallet collection (GET list, POST create)
func (h *WalletHandler) HandleWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListWallets(w, r, userID)
	case http.MethodPost:
		h.handleCreateWallet(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *WalletHandler) handleListWallets(w http.ResponseWriter, r *http.Request, userID int64) {
	wallets, err := h.wallets.ListWallets(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing wallets for user %d: %v", userID, err)
		http.Error(w, "Failed to list wallets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wallets)
}

func (h *WalletHandler) handleCreateWallet(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.wallets.CreateWallet(r.Context(), wallet.CreateParams{
		UserID:      userID,
		Name:        req.Name,
		Type:        req.Type,
		Balance:     req.Balance,
		Currency:    req.Currency,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// HandleWalletByID handles GET, PUT, and DELETE on a single wallet
func (h *WalletHandler) HandleWalletByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	walletID := r.PathValue("id")
	if walletID == "" {
		http.Error(w, "Wallet ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetWallet(w, r, userID, walletID)
	case http.MethodPut:
		h.handleUpdateWallet(w, r, userID, walletID)
	case http.MethodDelete:
		h.handleDeleteWallet(w, r, userID, walletID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *WalletHandler) handleGetWallet(w http.ResponseWriter, r *http.Request, userID int64, walletID string) {
	found, err := h.wallets.GetWallet(r.Context(), walletID, userID)
	if err != nil {
		http.Error(w, "Wallet not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(found)
}

func (h *WalletHandler) handleUpdateWallet(w http.ResponseWriter, r *http.Request, userID int64, walletID string) {
	var req UpdateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.wallets.UpdateWallet(r.Context(), walletID, userID, wallet.UpdateParams{
		Name:        req.Name,
		Type:        req.Type,
		Currency:    req.Currency,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletNotFound):
			http.Error(w, "Wallet not found", http.StatusNotFound)
		case errors.Is(err, wallet.ErrInvalidWalletType):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *WalletHandler) handleDeleteWallet(w http.ResponseWriter, r *http.Request, userID int64, walletID string) {
	if err := h.wallets.DeleteWallet(r.Context(), walletID, userID); err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			http.Error(w, "Wallet not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting wallet %s: %v", walletID, err)
		http.Error(w, "Failed to delete wallet", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleTransfer moves money between two of the user's wallets
func (h *WalletHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.ledger.Transfer(r.Context(), ledger.TransferParams{
		UserID:       userID,
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount,
		Note:         req.Note,
	})
	if err != nil {
		var insufficient *ledger.InsufficientFundsError
		switch {
		case errors.As(err, &insufficient):
			http.Error(w, insufficient.Error(), http.StatusBadRequest)
		case errors.Is(err, ledger.ErrSameWallet), errors.Is(err, transaction.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, wallet.ErrWalletNotFound):
			http.Error(w, "Wallet not found", http.StatusNotFound)
		default:
			log.Printf("Error transferring for user %d: %v", userID, err)
			http.Error(w, "Failed to transfer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// HandleSummary returns the total balance and per-type breakdown
func (h *WalletHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.wallets.Summarize(r.Context(), userID)
	if err != nil {
		log.Printf("Error summarizing wallets for user %d: %v", userID, err)
		http.Error(w, "Failed to summarize wallets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
