package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"centavo/internal/domain/statistics"
	"centavo/internal/shared/middleware"
)

type StatisticsHandler struct {
	stats *statistics.Service
}

func NewStatisticsHandler(stats *statistics.Service) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// HandleStatistics returns the yearly income/expense report
func (h *StatisticsHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := statistics.Query{
		Period:   r.URL.Query().Get("period"),
		WalletID: r.URL.Query().Get("walletId"),
	}
	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1970 {
			http.Error(w, "year must be a valid year", http.StatusBadRequest)
			return
		}
		q.Year = year
	}

	report, err := h.stats.YearlyReport(r.Context(), userID, q)
	if err != nil {
		if errors.Is(err, statistics.ErrInvalidPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error building statistics for user %d: %v", userID, err)
		http.Error(w, "Failed to build statistics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
