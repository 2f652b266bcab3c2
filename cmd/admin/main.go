package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"centavo/internal/domain/notification"
	"centavo/internal/infrastructure/postgres"
	"centavo/internal/shared/config"
)

const usage = `Centavo Admin CLI - Management commands for the Centavo API

Usage:
  admin <command> [options]

Commands:
  migrate            Apply pending database migrations
  deadline-sweep     Generate deadline reminders for budgets and savings goals
  purge              Delete expired read notifications

Examples:
  # Apply migrations
  admin migrate

  # Run the deadline sweep manually instead of waiting for the scheduler
  admin deadline-sweep

  # Run the sweep with a custom timeout
  admin deadline-sweep --timeout=5m

  # Purge expired notifications
  admin purge
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(os.Args[2:])
	case "deadline-sweep":
		runDeadlineSweep(os.Args[2:])
	case "purge":
		runPurge(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	db := connect()
	defer db.Close()

	startTime := time.Now()
	if err := db.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migrations applied in %v", time.Since(startTime))
}

func runDeadlineSweep(args []string) {
	fs := flag.NewFlagSet("deadline-sweep", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "10m", "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin deadline-sweep [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	db := connect()
	defer db.Close()

	notifications := newNotificationService(db)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Println("Starting deadline sweep")
	startTime := time.Now()

	if err := notifications.RunDeadlineSweep(ctx); err != nil {
		log.Fatalf("Deadline sweep failed: %v", err)
	}

	log.Printf("Deadline sweep completed in %v", time.Since(startTime))
}

func runPurge(args []string) {
	fs := flag.NewFlagSet("purge", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "10m", "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin purge [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	db := connect()
	defer db.Close()

	notifications := newNotificationService(db)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()
	purged, err := notifications.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("Purge failed: %v", err)
	}

	log.Printf("Purged %d notifications in %v", purged, time.Since(startTime))
}

func connect() *postgres.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")
	return db
}

func newNotificationService(db *postgres.DB) *notification.Service {
	return notification.NewService(
		postgres.NewNotificationRepository(db),
		postgres.NewBudgetRepository(db),
		postgres.NewSavingsRepository(db),
		postgres.NewTransactionRepository(db),
	)
}
