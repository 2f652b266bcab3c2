package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"centavo/internal/domain/notification"
	"centavo/internal/shared/middleware"
)

type NotificationHandler struct {
	notifications *notification.Service
}

func NewNotificationHandler(notifications *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// HandleNotifications lists the user's newest notifications
func (h *NotificationHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	notifications, err := h.notifications.ListNotifications(r.Context(), userID, limit)
	if err != nil {
		log.Printf("Error listing notifications for user %d: %v", userID, err)
		http.Error(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []*notification.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// HandleUnreadCount returns the unread notification count
func (h *NotificationHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		log.Printf("Error counting unread notifications for user %d: %v", userID, err)
		http.Error(w, "Failed to count notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"count": count})
}

// HandleMarkRead marks one notification as read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, userID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			return
		}
		log.Printf("Error marking notification %s read: %v", id, err)
		http.Error(w, "Failed to mark notification read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllRead marks every unread notification as read
func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	updated, err := h.notifications.MarkAllRead(r.Context(), userID)
	if err != nil {
		log.Printf("Error marking all notifications read for user %d: %v", userID, err)
		http.Error(w, "Failed to mark notifications read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"updated": updated})
}

// HandleNotificationByID handles DELETE on a single notification
func (h *NotificationHandler) HandleNotificationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	if err := h.notifications.DeleteNotification(r.Context(), id, userID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting notification %s: %v", id, err)
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteRead removes all of the user's read notifications
func (h *NotificationHandler) HandleDeleteRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.notifications.DeleteAllRead(r.Context(), userID)
	if err != nil {
		log.Printf("Error deleting read notifications for user %d: %v", userID, err)
		http.Error(w, "Failed to delete notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
}
