package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tempo/internal/amqp"
	"tempo/internal/config"
	apphttp "tempo/internal/http"
	"tempo/internal/services"
	"tempo/internal/sheets"
	gsheet "tempo/internal/sheets/google"
	"tempo/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

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

	// Initialize AMQP client for publishing entry-committed messages.
	// The rollup worker consumes these and refreshes project rollups.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized - entries will feed the rollup worker")
		}
	} else {
		logger.Info("AMQP disabled - project rollups rely on periodic reconciliation only")
	}

	// Optional Google Sheets export of newly materialized summaries
	var exporter sheets.SummaryExporter
	if cfg.GoogleSpreadsheetID != "" {
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Warn("Failed to initialize Google Sheets exporter, summaries stay local", "error", err)
		} else {
			exporter = cli
			logger.Info("Google Sheets summary export enabled", "sheet", cfg.GoogleSummarySheet)
		}
	}

	timerService := services.NewTimerService(sqliteRepo)
	entryService := services.NewEntryService(sqliteRepo, amqpClient)
	projectService := services.NewProjectService(sqliteRepo)
	summaryService := services.NewSummaryService(sqliteRepo, exporter)

	srv := apphttp.NewServer(":"+cfg.Port, sqliteRepo, timerService, entryService, projectService)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// HTTP listener
	g.Go(func() error {
		logger.Info("Starting tempo server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Graceful shutdown once the group context ends
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Summarizer: once at startup, then on a fixed interval. Failures are
	// logged and retried on the next tick, never fatal.
	g.Go(func() error {
		if created, err := summaryService.Generate(gctx, time.Now(), nil); err != nil {
			logger.Error("Startup summary generation failed", "error", err)
		} else if created > 0 {
			logger.Info("Startup summary generation complete", "created", created)
		}

		ticker := time.NewTicker(cfg.SummaryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				created, err := summaryService.Generate(gctx, now, nil)
				if err != nil {
					logger.Error("Periodic summary generation failed", "error", err)
					continue
				}
				logger.Info("Periodic summary generation complete",
					"created", created,
					"next_run", now.Add(cfg.SummaryInterval).Format("2006-01-02 15:04:05"))
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
