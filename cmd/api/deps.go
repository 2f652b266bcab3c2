package main

import (
	"log"

	"centavo/internal/domain/budget"
	"centavo/internal/domain/category"
	"centavo/internal/domain/ledger"
	"centavo/internal/domain/notification"
	"centavo/internal/domain/savings"
	"centavo/internal/domain/statistics"
	"centavo/internal/domain/wallet"
	"centavo/internal/infrastructure/postgres"
	httphandlers "centavo/internal/interfaces/http"
	"centavo/internal/shared/auth"
	"centavo/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	WalletHandler       *httphandlers.WalletHandler
	CategoryHandler     *httphandlers.CategoryHandler
	TransactionHandler  *httphandlers.TransactionHandler
	BudgetHandler       *httphandlers.BudgetHandler
	SavingsHandler      *httphandlers.SavingsHandler
	NotificationHandler *httphandlers.NotificationHandler
	StatisticsHandler   *httphandlers.StatisticsHandler
	DashboardHandler    *httphandlers.DashboardHandler

	// Auth
	JWT *auth.JWT

	// Notification service (for scheduler jobs)
	NotificationService *notification.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	savingsRepo := postgres.NewSavingsRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	ledgerStore := postgres.NewLedgerStore(db)

	// Initialize domain services. The notification service doubles as
	// the ledger's alerter: every balance mutation re-derives budget and
	// goal notifications.
	walletService := wallet.NewService(walletRepo)
	categoryService := category.NewService(categoryRepo)
	budgetService := budget.NewService(budgetRepo, categoryService, transactionRepo)
	savingsService := savings.NewService(savingsRepo, transactionRepo)
	statisticsService := statistics.NewService(transactionRepo)
	notificationService := notification.NewService(notificationRepo, budgetRepo, savingsRepo, transactionRepo)
	ledgerService := ledger.NewService(ledgerStore, notificationService)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)
	googleOAuth := auth.NewGoogleOAuthProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.CallbackURL,
	)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, googleOAuth, jwt, cfg.Server.FrontendURL)
	userHandler := httphandlers.NewUserHandler(userRepo)
	walletHandler := httphandlers.NewWalletHandler(walletService, ledgerService)
	categoryHandler := httphandlers.NewCategoryHandler(categoryService)
	transactionHandler := httphandlers.NewTransactionHandler(transactionRepo, ledgerService)
	budgetHandler := httphandlers.NewBudgetHandler(budgetService)
	savingsHandler := httphandlers.NewSavingsHandler(savingsService, ledgerService)
	notificationHandler := httphandlers.NewNotificationHandler(notificationService)
	statisticsHandler := httphandlers.NewStatisticsHandler(statisticsService)
	dashboardHandler := httphandlers.NewDashboardHandler(userRepo, transactionRepo, categoryService, budgetService, walletService)

	return &Dependencies{
		DB:                  db,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		WalletHandler:       walletHandler,
		CategoryHandler:     categoryHandler,
		TransactionHandler:  transactionHandler,
		BudgetHandler:       budgetHandler,
		SavingsHandler:      savingsHandler,
		NotificationHandler: notificationHandler,
		StatisticsHandler:   statisticsHandler,
		DashboardHandler:    dashboardHandler,
		JWT:                 jwt,
		NotificationService: notificationService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
