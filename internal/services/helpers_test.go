package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tempo/internal/core"
	"tempo/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *storage.SQLiteRepository, name, rate string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), name, "user",
		decimal.RequireFromString(rate), "tok-"+name)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return id
}

func seedProject(t *testing.T, repo *storage.SQLiteRepository, name string) int64 {
	t.Helper()
	p, err := repo.CreateProject(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateProject(%s): %v", name, err)
	}
	return p.ID
}

func seedEntry(t *testing.T, repo *storage.SQLiteRepository, userID, projectID int64, date time.Time, durationSeconds int64, rate string) {
	t.Helper()
	_, err := repo.CreateTimeEntry(context.Background(), core.TimeEntry{
		UserID:          userID,
		ProjectID:       projectID,
		Date:            date,
		DurationSeconds: durationSeconds,
		HourlyRate:      decimal.RequireFromString(rate),
	})
	if err != nil {
		t.Fatalf("CreateTimeEntry: %v", err)
	}
}

// fakeClock is a controllable time source for timer tests.
type fakeClock struct {
	current time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{current: start}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
