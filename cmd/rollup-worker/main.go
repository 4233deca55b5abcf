package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tempo/internal/amqp"
	"tempo/internal/config"
	applog "tempo/internal/log"
	"tempo/internal/services"
	"tempo/internal/storage"
	"tempo/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting rollup-worker")

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository
	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	projectService := services.NewProjectService(sqliteRepo)
	rollupWorker := worker.NewRollupWorker(sqliteRepo, projectService)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Consume entry-committed messages when AMQP is configured. Without it
	// the worker still converges via periodic reconciliation.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			if err := amqpClient.ConsumeEntryCommitted(ctx, rollupWorker.HandleEntryMessage); err != nil && ctx.Err() == nil {
				logger.Error("AMQP consume loop terminated", "error", err)
				stop()
			}
		}()
		logger.Info("Consuming entry-committed messages", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - running in reconcile-only mode")
	}

	// Run initial reconciliation on startup
	logger.Info("Running initial project rollup reconciliation...")
	if err := rollupWorker.ReconcileAll(ctx); err != nil {
		logger.Error("Initial reconciliation failed", "error", err)
	}

	// Periodic reconciliation is the backup for lost messages
	ticker := time.NewTicker(cfg.RollupInterval)
	defer ticker.Stop()

	logger.Info("Rollup worker configured",
		"interval", cfg.RollupInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			logger.Info("Rollup worker stopped gracefully")
			return
		case <-ticker.C:
			if err := rollupWorker.ReconcileAll(ctx); err != nil {
				logger.Error("Periodic reconciliation failed", "error", err)
			}
		}
	}
}
