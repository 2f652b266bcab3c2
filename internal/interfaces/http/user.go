package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"centavo/internal/domain/user"
	"centavo/internal/shared/auth"
	"centavo/internal/shared/middleware"
)

type UserHandler struct {
	users user.Repository
}

func NewUserHandler(users user.Repository) *UserHandler {
	return &UserHandler{users: users}
}

// HandleMe handles GET and PUT for the current user's profile
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetMe(w, r, userID)
	case http.MethodPut:
		h.handleUpdateMe(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *UserHandler) handleGetMe(w http.ResponseWriter, r *http.Request, userID int64) {
	userModel, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userModel)
}

func (h *UserHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request, userID int64) {
	var params user.UpdateUserParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// Password changes go through the dedicated endpoint
	params.PasswordHash = nil

	userModel, err := h.users.Update(r.Context(), userID, params)
	if err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userModel)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleChangePassword verifies the current password and stores a new hash
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userModel, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if userModel.PasswordHash == nil {
		http.Error(w, "This account uses Google sign-in", http.StatusBadRequest)
		return
	}
	if err := auth.VerifyPassword(*userModel.PasswordHash, req.CurrentPassword); err != nil {
		http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error hashing new password for user %d: %v", userID, err)
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	if _, err := h.users.Update(r.Context(), userID, user.UpdateUserParams{PasswordHash: &newHash}); err != nil {
		log.Printf("Error storing new password for user %d: %v", userID, err)
		http.Error(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
