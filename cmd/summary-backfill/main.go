package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tempo/internal/config"
	applog "tempo/internal/log"
	"tempo/internal/services"
	"tempo/internal/storage"
)

// One-shot summarizer run for manual backfills. With -reset the summary table
// is cleared first, which is the only way to pick up entries added to months
// that were already summarized.
func main() {
	reset := flag.Bool("reset", false, "clear all existing summaries and recompute from scratch")
	flag.Parse()

	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentSummary})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	// No exporter here: re-exporting previously exported rows would duplicate
	// them in the spreadsheet.
	summaryService := services.NewSummaryService(sqliteRepo, nil)

	progress := func(processed, total int) {
		fmt.Printf("\rprocessed %d/%d tuples", processed, total)
		if processed == total {
			fmt.Println()
		}
	}

	ctx := context.Background()
	start := time.Now()

	var created int
	if *reset {
		logger.Info("Running full backfill (clearing existing summaries)")
		created, err = summaryService.Backfill(ctx, time.Now(), progress)
	} else {
		logger.Info("Running additive summary generation")
		created, err = summaryService.Generate(ctx, time.Now(), progress)
	}
	if err != nil {
		logger.Error("Summary run failed", "error", err, "created_before_failure", created)
		os.Exit(1)
	}

	logger.Info("Summary run complete",
		"created", created,
		"duration", time.Since(start).Round(time.Millisecond).String())
}
