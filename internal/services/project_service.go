package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tempo/internal/core"
	"tempo/internal/storage"
)

// ProjectService derives project-level money figures: total budget is the
// sum of injections, total cost is the sum of summarized closed months plus
// live cost for months not yet summarized, profit is the difference.
type ProjectService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewProjectService(storage *storage.SQLiteRepository) *ProjectService {
	return &ProjectService{
		storage: storage,
		now:     time.Now,
	}
}

func (s *ProjectService) WithClock(now func() time.Time) *ProjectService {
	s.now = now
	return s
}

// CreateProject registers a new project with an empty budget.
func (s *ProjectService) CreateProject(ctx context.Context, name string) (*core.Project, error) {
	project, err := s.storage.CreateProject(ctx, name)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]core.Project, error) {
	return s.storage.ListProjects(ctx)
}

// AddInjection adds funds to a project budget. The project must exist.
func (s *ProjectService) AddInjection(ctx context.Context, b core.BudgetInjection) (int64, error) {
	if _, err := s.storage.GetProject(ctx, b.ProjectID); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateInjection(ctx, b)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Budget injection recorded",
		"project_id", b.ProjectID,
		"amount", core.FormatMoney(b.Amount))
	return id, nil
}

// ProjectFigures is the derived financial view of one project.
type ProjectFigures struct {
	Project     core.Project
	TotalBudget decimal.Decimal
	TotalCost   decimal.Decimal
	Profit      decimal.Decimal
}

// Figures computes budget, cost and profit for a project. Summarized months
// are read from the materialized table; any month without a summary row
// (the current month, and closed months the summarizer has not reached yet)
// is computed live from its entries.
func (s *ProjectService) Figures(ctx context.Context, projectID int64) (*ProjectFigures, error) {
	project, err := s.storage.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	injections, err := s.storage.ListInjections(ctx, projectID)
	if err != nil {
		return nil, err
	}
	budget := decimal.Zero
	for _, b := range injections {
		budget = budget.Add(b.Amount)
	}

	summaries, err := s.storage.ListSummariesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	cost := decimal.Zero
	summarized := make(map[string]struct{}, len(summaries))
	for _, sum := range summaries {
		// A summarized month may cover several users; track the month once.
		summarized[sum.Month.Key()] = struct{}{}
		cost = cost.Add(sum.TotalCost)
	}

	entries, err := s.storage.ListEntriesByProjectSince(ctx, projectID, time.Time{})
	if err != nil {
		return nil, err
	}
	live := decimal.Zero
	for _, e := range entries {
		if _, ok := summarized[core.MonthOf(e.Date).Key()]; ok {
			continue
		}
		live = live.Add(e.Cost())
	}
	cost = cost.Add(live.Round(2))

	return &ProjectFigures{
		Project:     *project,
		TotalBudget: budget,
		TotalCost:   cost,
		Profit:      budget.Sub(cost),
	}, nil
}

// RecomputeRollup refreshes the derived rollup row for one project.
func (s *ProjectService) RecomputeRollup(ctx context.Context, projectID int64) error {
	figures, err := s.Figures(ctx, projectID)
	if err != nil {
		return fmt.Errorf("compute figures for project %d: %w", projectID, err)
	}
	return s.storage.UpsertRollup(ctx, storage.ProjectRollup{
		ProjectID:   projectID,
		TotalBudget: figures.TotalBudget,
		TotalCost:   figures.TotalCost,
		Profit:      figures.Profit,
		UpdatedAt:   s.now().UTC(),
	})
}

// ReconcileAll recomputes every project rollup. Backup for lost entry
// messages; safe to run at any time.
func (s *ProjectService) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := s.storage.ListProjectIDs(ctx)
	if err != nil {
		return 0, err
	}

	recomputed := 0
	for _, id := range ids {
		if err := s.RecomputeRollup(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to recompute project rollup",
				"project_id", id, "error", err)
			continue
		}
		recomputed++
	}

	slog.InfoContext(ctx, "Project rollup reconciliation complete",
		"recomputed", recomputed,
		"total", len(ids))

	return recomputed, nil
}
