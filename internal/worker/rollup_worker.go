package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tempo/internal/amqp"
	"tempo/internal/services"
	"tempo/internal/storage"
)

// RollupWorker keeps the derived project budget/cost/profit cache current.
// It reacts to entry-committed messages and periodically reconciles every
// project as a backup for lost messages.
type RollupWorker struct {
	storage  *storage.SQLiteRepository
	projects *services.ProjectService
}

func NewRollupWorker(storage *storage.SQLiteRepository, projects *services.ProjectService) *RollupWorker {
	return &RollupWorker{
		storage:  storage,
		projects: projects,
	}
}

// HandleEntryMessage processes a single entry-committed message from AMQP.
func (w *RollupWorker) HandleEntryMessage(ctx context.Context, msg *amqp.EntryCommittedMessage) error {
	slog.InfoContext(ctx, "Processing entry committed message",
		"id", msg.ID,
		"version", msg.Version)

	entry, err := w.storage.GetTimeEntry(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get time entry from storage: %w", err)
	}

	if err := w.projects.RecomputeRollup(ctx, entry.ProjectID); err != nil {
		return fmt.Errorf("recompute rollup for project %d: %w", entry.ProjectID, err)
	}

	return nil
}

// ReconcileAll recomputes every project rollup. Run at startup and on a
// periodic tick.
func (w *RollupWorker) ReconcileAll(ctx context.Context) error {
	_, err := w.projects.ReconcileAll(ctx)
	return err
}
