package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetd/internal/config"
	"budgetd/internal/events"
	applog "budgetd/internal/log"
	"budgetd/internal/storage"
)

// The worker consumes expense lifecycle events and writes an audit line per
// event, enriched with the current expense record where one still exists.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.Setup(applog.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: "budgetd-worker",
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := func(msg *events.ExpenseEventMessage) error {
		lookupCtx, lookupCancel := context.WithTimeout(ctx, 5*time.Second)
		defer lookupCancel()

		switch msg.Action {
		case events.ActionDeleted:
			logger.Info("Expense deleted", "id", msg.ID, "event_time", msg.Timestamp)
			return nil
		case events.ActionCreated, events.ActionUpdated:
			expense, err := repo.FindExpense(lookupCtx, msg.ID)
			if errors.Is(err, storage.ErrNotFound) {
				// Deleted between publish and consume; nothing to audit.
				logger.Warn("Expense no longer exists", "id", msg.ID, "action", msg.Action)
				return nil
			}
			if err != nil {
				return fmt.Errorf("find expense %s: %w", msg.ID, err)
			}
			logger.Info("Expense event",
				"id", expense.ID,
				"action", msg.Action,
				"name", expense.Name,
				"amount", expense.Amount.String(),
				"category", expense.CategoryText(),
				"counterparty", expense.CounterpartyText(),
				"event_time", msg.Timestamp)
			return nil
		default:
			logger.Warn("Unknown event action", "id", msg.ID, "action", msg.Action)
			return nil
		}
	}

	go func() {
		if err := client.ConsumeExpenseEvents(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	logger.Info("Starting budgetd-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker shutdown complete")
}
