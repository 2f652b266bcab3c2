package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"centavo/internal/domain/category"
	"centavo/internal/shared/middleware"
)

type CategoryHandler struct {
	categories *category.Service
}

func NewCategoryHandler(categories *category.Service) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// HandleCategories handles the category collection (GET list, POST create)
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListCategories(w, r, userID)
	case http.MethodPost:
		h.handleCreateCategory(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CategoryHandler) handleListCategories(w http.ResponseWriter, r *http.Request, userID int64) {
	filter := category.ListFilter{
		Type:            r.URL.Query().Get("type"),
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}

	categories, err := h.categories.ListCategories(r.Context(), userID, filter)
	if err != nil {
		log.Printf("Error listing categories for user %d: %v", userID, err)
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func (h *CategoryHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.categories.CreateCategory(r.Context(), category.CreateParams{
		UserID: userID,
		Name:   req.Name,
		Type:   req.Type,
	})
	if err != nil {
		if errors.Is(err, category.ErrDuplicateName) {
			http.Error(w, "A category with this name already exists", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := http.StatusCreated
	if result.Reactivated {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result.Category)
}

// HandleCategoryByID handles GET, PUT, and DELETE on a single category
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categoryID := r.PathValue("id")
	if categoryID == "" {
		http.Error(w, "Category ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetCategory(w, r, userID, categoryID)
	case http.MethodPut:
		h.handleUpdateCategory(w, r, userID, categoryID)
	case http.MethodDelete:
		h.handleDeleteCategory(w, r, userID, categoryID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CategoryHandler) handleGetCategory(w http.ResponseWriter, r *http.Request, userID int64, categoryID string) {
	found, err := h.categories.GetCategory(r.Context(), categoryID, userID)
	if err != nil {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(found)
}

func (h *CategoryHandler) handleUpdateCategory(w http.ResponseWriter, r *http.Request, userID int64, categoryID string) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.categories.UpdateCategory(r.Context(), categoryID, userID, req.Name, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, category.ErrCategoryNotFound):
			http.Error(w, "Category not found", http.StatusNotFound)
		case errors.Is(err, category.ErrDuplicateName):
			http.Error(w, "A category with this name already exists", http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *CategoryHandler) handleDeleteCategory(w http.ResponseWriter, r *http.Request, userID int64, categoryID string) {
	if err := h.categories.DeleteCategory(r.Context(), categoryID, userID); err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting category %s: %v", categoryID, err)
		http.Error(w, "Failed to delete category", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRestore reactivates a hidden category
func (h *CategoryHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categoryID := r.PathValue("id")
	if categoryID == "" {
		http.Error(w, "Category ID is required", http.StatusBadRequest)
		return
	}

	restored, err := h.categories.RestoreCategory(r.Context(), categoryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, category.ErrCategoryNotFound):
			http.Error(w, "Category not found", http.StatusNotFound)
		case errors.Is(err, category.ErrDuplicateName):
			http.Error(w, "An active category with this name already exists", http.StatusConflict)
		default:
			log.Printf("Error restoring category %s: %v", categoryID, err)
			http.Error(w, "Failed to restore category", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(restored)
}
