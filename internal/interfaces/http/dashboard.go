package http

import (
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"centavo/internal/domain/budget"
	"centavo/internal/domain/category"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/user"
	"centavo/internal/domain/wallet"
	"centavo/internal/shared/middleware"
)

// DashboardHandler aggregates the landing-page data in one request
type DashboardHandler struct {
	users        user.Repository
	transactions transaction.Repository
	categories   *category.Service
	budgets      *budget.Service
	wallets      *wallet.Service
}

func NewDashboardHandler(users user.Repository, transactions transaction.Repository, categories *category.Service, budgets *budget.Service, wallets *wallet.Service) *DashboardHandler {
	return &DashboardHandler{
		users:        users,
		transactions: transactions,
		categories:   categories,
		budgets:      budgets,
		wallets:      wallets,
	}
}

type DashboardResponse struct {
	User         *user.User              `json:"user"`
	Transactions TransactionListResponse `json:"transactions"`
	Categories   []*category.Category    `json:"categories"`
	BudgetAlerts []*budget.WithSpent     `json:"budgetAlerts"`
	Wallets      []*wallet.Wallet        `json:"wallets"`
}

// HandleDashboard fetches the profile, a transaction page, categories,
// budget alerts, and wallets concurrently.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp DashboardResponse
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		u, err := h.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		resp.User = u
		return nil
	})
	g.Go(func() error {
		views, total, err := h.transactions.List(ctx, userID, filter)
		if err != nil {
			return err
		}
		if views == nil {
			views = []*transaction.View{}
		}
		resp.Transactions = TransactionListResponse{
			Transactions: views,
			Pagination:   transaction.NewPagination(filter.Page, filter.Limit, total),
		}
		return nil
	})
	g.Go(func() error {
		categories, err := h.categories.ListCategories(ctx, userID, category.ListFilter{})
		if err != nil {
			return err
		}
		resp.Categories = categories
		return nil
	})
	g.Go(func() error {
		active, err := h.budgets.ListActiveBudgets(ctx, userID)
		if err != nil {
			return err
		}
		alerts := make([]*budget.WithSpent, 0)
		for _, b := range active {
			if b.IsWarning || b.IsExceeded {
				alerts = append(alerts, b)
			}
		}
		resp.BudgetAlerts = alerts
		return nil
	})
	g.Go(func() error {
		wallets, err := h.wallets.ListWallets(ctx, userID)
		if err != nil {
			return err
		}
		resp.Wallets = wallets
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("Error building dashboard for user %d: %v", userID, err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
