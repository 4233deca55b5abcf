package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tempo/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, name, token, rate string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), name, "user",
		decimal.RequireFromString(rate), token)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return id
}

func TestGetUserByToken(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := seedUser(t, repo, "alice", "tok-alice", "30.00")

	user, err := repo.GetUserByToken(ctx, "tok-alice")
	if err != nil {
		t.Fatalf("GetUserByToken: %v", err)
	}
	if user.ID != id || user.Name != "alice" {
		t.Errorf("got user %+v, want id=%d name=alice", user, id)
	}
	if core.FormatMoney(user.HourlyRate) != "30.00" {
		t.Errorf("hourly rate = %s, want 30.00", core.FormatMoney(user.HourlyRate))
	}

	if _, err := repo.GetUserByToken(ctx, "no-such-token"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown token: got %v, want ErrNotFound", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo, "alice", "tok-a", "30.00")

	t0 := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	session := core.TimerSession{
		ID:                "sess-1",
		UserID:            userID,
		Status:            core.StatusRunning,
		StartTime:         t0,
		LastIntervalStart: t0,
		Description:       "refactor",
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// Pause folds the interval into the total inside the UPDATE itself.
	paused, err := repo.PauseSession(ctx, userID, "sess-1", t0.Add(100*time.Second))
	if err != nil {
		t.Fatalf("PauseSession: %v", err)
	}
	if paused.Status != core.StatusPaused {
		t.Errorf("status = %s, want paused", paused.Status)
	}
	if paused.AccumulatedSeconds != 100 {
		t.Errorf("accumulated = %d, want 100", paused.AccumulatedSeconds)
	}
	if !paused.LastIntervalStart.IsZero() {
		t.Errorf("lastIntervalStart should be cleared after pause")
	}

	// Pausing a paused session is a wrong-status transition.
	if _, err := repo.PauseSession(ctx, userID, "sess-1", t0.Add(200*time.Second)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("double pause: got %v, want ErrNotFound", err)
	}

	resumed, err := repo.ResumeSession(ctx, userID, "sess-1", t0.Add(300*time.Second))
	if err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}
	if resumed.Status != core.StatusRunning {
		t.Errorf("status = %s, want running", resumed.Status)
	}
	if resumed.AccumulatedSeconds != 100 {
		t.Errorf("accumulated after resume = %d, want 100 (untouched)", resumed.AccumulatedSeconds)
	}
	if resumed.LastIntervalStart.Unix() != t0.Add(300*time.Second).Unix() {
		t.Errorf("lastIntervalStart = %v, want resume instant", resumed.LastIntervalStart)
	}

	if _, err := repo.ResumeSession(ctx, userID, "sess-1", t0.Add(400*time.Second)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("double resume: got %v, want ErrNotFound", err)
	}

	if err := repo.UpdateSessionDescription(ctx, userID, "sess-1", "rewrite", t0.Add(500*time.Second)); err != nil {
		t.Fatalf("UpdateSessionDescription: %v", err)
	}
	got, err := repo.GetSession(ctx, userID, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Description != "rewrite" {
		t.Errorf("description = %q, want rewrite", got.Description)
	}

	// TakeSession returns the snapshot and deletes the row in one shot.
	snapshot, err := repo.TakeSession(ctx, userID, "sess-1")
	if err != nil {
		t.Fatalf("TakeSession: %v", err)
	}
	if snapshot.AccumulatedSeconds != 100 || snapshot.Status != core.StatusRunning {
		t.Errorf("snapshot = %+v, want accumulated=100 status=running", snapshot)
	}
	if _, err := repo.GetSession(ctx, userID, "sess-1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("session still readable after take: %v", err)
	}
	if _, err := repo.TakeSession(ctx, userID, "sess-1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second take: got %v, want ErrNotFound", err)
	}
}

func TestSessionOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice", "tok-a", "30.00")
	bob := seedUser(t, repo, "bob", "tok-b", "40.00")

	t0 := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateSession(ctx, core.TimerSession{
		ID: "sess-owned", UserID: alice, Status: core.StatusRunning,
		StartTime: t0, LastIntervalStart: t0,
	}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// Foreign sessions are indistinguishable from missing ones.
	if _, err := repo.PauseSession(ctx, bob, "sess-owned", t0.Add(time.Second)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("foreign pause: got %v, want ErrNotFound", err)
	}
	if _, err := repo.TakeSession(ctx, bob, "sess-owned"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("foreign take: got %v, want ErrNotFound", err)
	}
	if _, err := repo.GetSession(ctx, bob, "sess-owned"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("foreign get: got %v, want ErrNotFound", err)
	}

	// Owner still sees the untouched session.
	got, err := repo.GetSession(ctx, alice, "sess-owned")
	if err != nil {
		t.Fatalf("owner GetSession: %v", err)
	}
	if got.Status != core.StatusRunning || got.AccumulatedSeconds != 0 {
		t.Errorf("session mutated by failed foreign calls: %+v", got)
	}
}

func TestInsertSummaryDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo, "alice", "tok-a", "30.00")
	project, err := repo.CreateProject(ctx, "website")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	summary := core.MonthlyCostSummary{
		ProjectID:            project.ID,
		UserID:               userID,
		Month:                core.Month{Year: 2026, Month: time.June},
		TotalDurationSeconds: 3600,
		TotalCost:            decimal.RequireFromString("30.00"),
	}

	inserted, err := repo.InsertSummary(ctx, summary)
	if err != nil {
		t.Fatalf("InsertSummary: %v", err)
	}
	if !inserted {
		t.Fatal("first insert reported as skipped")
	}

	inserted, err = repo.InsertSummary(ctx, summary)
	if err != nil {
		t.Fatalf("duplicate InsertSummary: %v", err)
	}
	if inserted {
		t.Error("duplicate insert reported as inserted")
	}

	n, err := repo.CountSummaries(ctx)
	if err != nil {
		t.Fatalf("CountSummaries: %v", err)
	}
	if n != 1 {
		t.Errorf("summary count = %d, want 1", n)
	}
}

func TestEntryQueries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo, "alice", "tok-a", "30.00")
	project, err := repo.CreateProject(ctx, "website")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	rate := decimal.RequireFromString("30.00")
	dates := []time.Time{
		time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := repo.CreateTimeEntry(ctx, core.TimeEntry{
			UserID: userID, ProjectID: project.ID, Date: d,
			DurationSeconds: 1800, HourlyRate: rate,
		}); err != nil {
			t.Fatalf("CreateTimeEntry(%s): %v", d.Format("2006-01-02"), err)
		}
	}

	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	before, err := repo.ListEntriesBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("ListEntriesBefore: %v", err)
	}
	if len(before) != 2 {
		t.Errorf("entries before cutoff = %d, want 2 (strictly before)", len(before))
	}

	july, err := repo.ListEntriesByUserMonth(ctx, userID, 2026, 7)
	if err != nil {
		t.Fatalf("ListEntriesByUserMonth: %v", err)
	}
	if len(july) != 1 || july[0].Date.Day() != 5 {
		t.Errorf("july entries = %+v, want single July 5 entry", july)
	}
}

func TestRollupUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	project, err := repo.CreateProject(ctx, "website")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	first := ProjectRollup{
		ProjectID:   project.ID,
		TotalBudget: decimal.RequireFromString("1000.00"),
		TotalCost:   decimal.RequireFromString("250.00"),
		Profit:      decimal.RequireFromString("750.00"),
		UpdatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.UpsertRollup(ctx, first); err != nil {
		t.Fatalf("UpsertRollup: %v", err)
	}

	second := first
	second.TotalCost = decimal.RequireFromString("300.00")
	second.Profit = decimal.RequireFromString("700.00")
	if err := repo.UpsertRollup(ctx, second); err != nil {
		t.Fatalf("second UpsertRollup: %v", err)
	}

	got, err := repo.GetRollup(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetRollup: %v", err)
	}
	if core.FormatMoney(got.TotalCost) != "300.00" || core.FormatMoney(got.Profit) != "700.00" {
		t.Errorf("rollup after upsert = cost %s profit %s, want 300.00/700.00",
			core.FormatMoney(got.TotalCost), core.FormatMoney(got.Profit))
	}

	if _, err := repo.GetRollup(ctx, project.ID+999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing rollup: got %v, want ErrNotFound", err)
	}
}
