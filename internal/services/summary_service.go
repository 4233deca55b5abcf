package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"tempo/internal/core"
	"tempo/internal/sheets"
	"tempo/internal/storage"
)

// SummaryService materializes immutable per-(project, user, month) cost and
// duration totals for closed calendar months. The pass is additive-only and
// idempotent: tuples already present are skipped, never updated, and the
// storage-level uniqueness constraint backstops overlapping runs.
type SummaryService struct {
	storage  *storage.SQLiteRepository
	exporter sheets.SummaryExporter
	running  atomic.Bool
}

// Progress reports (processed, total) over the candidate tuple set during a
// generation pass. Used by the backfill command; nil disables reporting.
type Progress func(processed, total int)

func NewSummaryService(storage *storage.SQLiteRepository, exporter sheets.SummaryExporter) *SummaryService {
	return &SummaryService{
		storage:  storage,
		exporter: exporter,
	}
}

type tupleTotals struct {
	durationSeconds int64
	cost            decimal.Decimal
}

// Generate runs one summarization pass as of the given instant: entries
// dated strictly before the first day of now's UTC month are aggregated by
// (project, user, month) with decimal arithmetic and inserted where no
// summary exists yet. Returns the number of rows created.
//
// Re-running with no new eligible entries creates nothing. Entries added to
// an already-summarized month are intentionally not picked up; a full
// backfill clears the table first.
func (s *SummaryService) Generate(ctx context.Context, now time.Time, progress Progress) (int, error) {
	// Overlapping ticks skip instead of queueing. Correctness does not
	// depend on this guard; the tuple check and unique constraint do.
	if !s.running.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "Summary generation already running, skipping this invocation")
		return 0, nil
	}
	defer s.running.Store(false)

	cutoff := core.CurrentMonthStart(now)

	existingKeys, err := s.storage.ListSummaryKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("load existing summary tuples: %w", err)
	}
	existing := make(map[storage.SummaryKey]struct{}, len(existingKeys))
	for _, k := range existingKeys {
		existing[k] = struct{}{}
	}

	entries, err := s.storage.ListEntriesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("load eligible entries: %w", err)
	}

	totals := make(map[storage.SummaryKey]*tupleTotals)
	for _, e := range entries {
		key := storage.SummaryKey{
			ProjectID: e.ProjectID,
			UserID:    e.UserID,
			Month:     core.MonthOf(e.Date).Key(),
		}
		t, ok := totals[key]
		if !ok {
			t = &tupleTotals{cost: decimal.Zero}
			totals[key] = t
		}
		t.durationSeconds += e.DurationSeconds
		t.cost = t.cost.Add(e.Cost())
	}

	keys := make([]storage.SummaryKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.UserID < b.UserID
	})

	slog.InfoContext(ctx, "Summary generation started",
		"cutoff", cutoff.Format("2006-01-02"),
		"eligible_entries", len(entries),
		"candidate_tuples", len(keys),
		"existing_tuples", len(existing))

	created := 0
	var createdRows []core.MonthlyCostSummary
	for i, key := range keys {
		if progress != nil {
			progress(i+1, len(keys))
		}
		if _, ok := existing[key]; ok {
			continue
		}

		month, err := core.ParseMonthKey(key.Month)
		if err != nil {
			return created, err
		}
		summary := core.MonthlyCostSummary{
			ProjectID:            key.ProjectID,
			UserID:               key.UserID,
			Month:                month,
			TotalDurationSeconds: totals[key].durationSeconds,
			// Round once per tuple at insertion, not per entry.
			TotalCost: totals[key].cost.Round(2),
		}
		inserted, err := s.storage.InsertSummary(ctx, summary)
		if err != nil {
			return created, fmt.Errorf("insert summary %d/%d/%s: %w", key.ProjectID, key.UserID, key.Month, err)
		}
		if !inserted {
			// A concurrent run won the insert; the constraint did its job.
			slog.WarnContext(ctx, "Summary tuple inserted concurrently, skipped",
				"project_id", key.ProjectID,
				"user_id", key.UserID,
				"month", key.Month)
			continue
		}
		created++
		createdRows = append(createdRows, summary)
	}

	slog.InfoContext(ctx, "Summary generation complete",
		"created", created,
		"skipped", len(keys)-created)

	if s.exporter != nil && len(createdRows) > 0 {
		if err := s.exporter.ExportSummaries(ctx, createdRows); err != nil {
			// Export is best-effort; the rows are already durable locally.
			slog.ErrorContext(ctx, "Summary export failed", "error", err, "rows", len(createdRows))
		}
	}

	return created, nil
}

// Backfill clears every summary and regenerates from scratch. This is the
// only way to pick up entries added to months that were already summarized.
func (s *SummaryService) Backfill(ctx context.Context, now time.Time, progress Progress) (int, error) {
	if err := s.storage.DeleteAllSummaries(ctx); err != nil {
		return 0, err
	}
	return s.Generate(ctx, now, progress)
}
