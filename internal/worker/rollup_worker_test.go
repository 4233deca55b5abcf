package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tempo/internal/amqp"
	"tempo/internal/core"
	"tempo/internal/services"
	"tempo/internal/storage"
)

func newTestWorker(t *testing.T) (*RollupWorker, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewRollupWorker(repo, services.NewProjectService(repo)), repo
}

func TestHandleEntryMessage(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	userID, err := repo.CreateUser(ctx, "alice", "user", decimal.RequireFromString("30.00"), "tok-a")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	project, err := repo.CreateProject(ctx, "website")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	entryID, err := repo.CreateTimeEntry(ctx, core.TimeEntry{
		UserID:          userID,
		ProjectID:       project.ID,
		Date:            time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
		DurationSeconds: 3600,
		HourlyRate:      decimal.RequireFromString("30.00"),
	})
	if err != nil {
		t.Fatalf("CreateTimeEntry: %v", err)
	}

	msg := amqp.NewEntryCommittedMessage(entryID, 1)
	if err := w.HandleEntryMessage(ctx, msg); err != nil {
		t.Fatalf("HandleEntryMessage: %v", err)
	}

	rollup, err := repo.GetRollup(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetRollup: %v", err)
	}
	if core.FormatMoney(rollup.TotalCost) != "30.00" {
		t.Errorf("rollup cost = %s, want 30.00", core.FormatMoney(rollup.TotalCost))
	}
}

func TestHandleEntryMessageUnknownEntry(t *testing.T) {
	w, _ := newTestWorker(t)

	msg := amqp.NewEntryCommittedMessage(999, 1)
	err := w.HandleEntryMessage(context.Background(), msg)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
