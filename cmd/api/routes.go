package main

import (
	"log"
	"net/http"

	httphandlers "centavo/internal/interfaces/http"
	"centavo/internal/shared/config"
	"centavo/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Static pages (dev only)
	mux.HandleFunc("/", httphandlers.HandleLoginPage)
	mux.HandleFunc("/login", httphandlers.HandleLoginPage)
	mux.HandleFunc("/dashboard", httphandlers.HandleDashboard)
	mux.HandleFunc("/oauth-callback", httphandlers.HandleOAuthCallback)

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)
	mux.HandleFunc("/api/auth/oauth/url", deps.AuthHandler.HandleOAuthURL)
	mux.HandleFunc("/api/auth/oauth/callback", deps.AuthHandler.HandleOAuthCallback)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protect("/api/users/me", deps.UserHandler.HandleMe)
	protect("/api/users/change-password", deps.UserHandler.HandleChangePassword)

	protect("/api/wallets", deps.WalletHandler.HandleWallets)
	protect("/api/wallets/transfer", deps.WalletHandler.HandleTransfer)
	protect("/api/wallets/summary/total", deps.WalletHandler.HandleSummary)
	protect("/api/wallets/{id}", deps.WalletHandler.HandleWalletByID)

	protect("/api/categories", deps.CategoryHandler.HandleCategories)
	protect("/api/categories/{id}", deps.CategoryHandler.HandleCategoryByID)
	protect("/api/categories/{id}/restore", deps.CategoryHandler.HandleRestore)

	protect("/api/transactions", deps.TransactionHandler.HandleTransactions)
	protect("/api/transactions/{id}", deps.TransactionHandler.HandleTransactionByID)

	protect("/api/budgets", deps.BudgetHandler.HandleBudgets)
	protect("/api/budgets/active", deps.BudgetHandler.HandleActiveBudgets)
	protect("/api/budgets/{id}", deps.BudgetHandler.HandleBudgetByID)

	protect("/api/savings-goals", deps.SavingsHandler.HandleGoals)
	protect("/api/savings-goals/{id}", deps.SavingsHandler.HandleGoalByID)
	protect("/api/savings-goals/{id}/contribute", deps.SavingsHandler.HandleContribute)
	protect("/api/savings-goals/{id}/withdraw", deps.SavingsHandler.HandleWithdraw)
	protect("/api/savings-goals/{id}/transactions", deps.SavingsHandler.HandleGoalTransactions)

	protect("/api/notifications", deps.NotificationHandler.HandleNotifications)
	protect("/api/notifications/unread-count", deps.NotificationHandler.HandleUnreadCount)
	protect("/api/notifications/read-all", deps.NotificationHandler.HandleMarkAllRead)
	protect("/api/notifications/read", deps.NotificationHandler.HandleDeleteRead)
	protect("/api/notifications/{id}", deps.NotificationHandler.HandleNotificationByID)
	protect("/api/notifications/{id}/read", deps.NotificationHandler.HandleMarkRead)

	protect("/api/statistics", deps.StatisticsHandler.HandleStatistics)
	protect("/api/dashboard", deps.DashboardHandler.HandleDashboard)

	// Apply global middleware
	handler := middleware.Logging(middleware.Telemetry(middleware.CORS(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
