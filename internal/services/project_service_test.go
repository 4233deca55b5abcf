package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tempo/internal/core"
)

func TestProjectFigures(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	projectID := seedProject(t, repo, "website")
	userID := seedUser(t, repo, "alice", "30.00")

	projects := NewProjectService(repo).WithClock(func() time.Time { return summaryNow })

	for _, amount := range []string{"1000.00", "500.00"} {
		if _, err := projects.AddInjection(ctx, core.BudgetInjection{
			ProjectID:  projectID,
			Amount:     decimal.RequireFromString(amount),
			InjectedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("AddInjection(%s): %v", amount, err)
		}
	}

	// One closed-month entry (to be summarized) and one live entry.
	seedEntry(t, repo, userID, projectID, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), 3600, "30.00")
	seedEntry(t, repo, userID, projectID, time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), 7200, "30.00")

	summaries := NewSummaryService(repo, nil)
	if _, err := summaries.Generate(ctx, summaryNow, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	figures, err := projects.Figures(ctx, projectID)
	if err != nil {
		t.Fatalf("Figures: %v", err)
	}

	if got := core.FormatMoney(figures.TotalBudget); got != "1500.00" {
		t.Errorf("totalBudget = %s, want 1500.00", got)
	}
	// 30.00 summarized (July) + 60.00 live (August).
	if got := core.FormatMoney(figures.TotalCost); got != "90.00" {
		t.Errorf("totalCost = %s, want 90.00", got)
	}
	if got := core.FormatMoney(figures.Profit); got != "1410.00" {
		t.Errorf("profit = %s, want 1410.00", got)
	}
}

func TestFiguresDoesNotDoubleCountSummarizedMonths(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	projectID := seedProject(t, repo, "website")
	userID := seedUser(t, repo, "alice", "30.00")

	projects := NewProjectService(repo).WithClock(func() time.Time { return summaryNow })

	// Single closed-month entry, summarized: cost must count exactly once.
	seedEntry(t, repo, userID, projectID, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), 3600, "30.00")
	summaries := NewSummaryService(repo, nil)
	if _, err := summaries.Generate(ctx, summaryNow, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	figures, err := projects.Figures(ctx, projectID)
	if err != nil {
		t.Fatalf("Figures: %v", err)
	}
	if got := core.FormatMoney(figures.TotalCost); got != "30.00" {
		t.Errorf("totalCost = %s, want 30.00 (entry counted via summary only)", got)
	}
}

func TestRecomputeRollup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	projectID := seedProject(t, repo, "website")
	userID := seedUser(t, repo, "alice", "30.00")

	projects := NewProjectService(repo).WithClock(func() time.Time { return summaryNow })

	if _, err := projects.AddInjection(ctx, core.BudgetInjection{
		ProjectID:  projectID,
		Amount:     decimal.RequireFromString("200.00"),
		InjectedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("AddInjection: %v", err)
	}
	seedEntry(t, repo, userID, projectID, time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), 3600, "30.00")

	if err := projects.RecomputeRollup(ctx, projectID); err != nil {
		t.Fatalf("RecomputeRollup: %v", err)
	}

	rollup, err := repo.GetRollup(ctx, projectID)
	if err != nil {
		t.Fatalf("GetRollup: %v", err)
	}
	if core.FormatMoney(rollup.TotalBudget) != "200.00" ||
		core.FormatMoney(rollup.TotalCost) != "30.00" ||
		core.FormatMoney(rollup.Profit) != "170.00" {
		t.Errorf("rollup = budget %s cost %s profit %s, want 200.00/30.00/170.00",
			core.FormatMoney(rollup.TotalBudget),
			core.FormatMoney(rollup.TotalCost),
			core.FormatMoney(rollup.Profit))
	}
}

func TestReconcileAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	projects := NewProjectService(repo).WithClock(func() time.Time { return summaryNow })
	first := seedProject(t, repo, "website")
	second := seedProject(t, repo, "mobile app")

	recomputed, err := projects.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("ReconcileAll: %v", err)
	}
	if recomputed != 2 {
		t.Errorf("recomputed = %d, want 2", recomputed)
	}
	for _, id := range []int64{first, second} {
		if _, err := repo.GetRollup(ctx, id); err != nil {
			t.Errorf("rollup missing for project %d: %v", id, err)
		}
	}
}

func TestAddInjectionValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	projectID := seedProject(t, repo, "website")

	projects := NewProjectService(repo)

	if _, err := projects.AddInjection(ctx, core.BudgetInjection{
		ProjectID:  projectID,
		Amount:     decimal.Zero,
		InjectedAt: summaryNow,
	}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}

	if _, err := projects.AddInjection(ctx, core.BudgetInjection{
		ProjectID:  projectID + 999,
		Amount:     decimal.RequireFromString("10.00"),
		InjectedAt: summaryNow,
	}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown project: got %v, want ErrNotFound", err)
	}
}
