package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"tempo/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRepository is the single source of truth for both the timer session
// manager and the summarizer; all cross-request coordination goes through it.
type SQLiteRepository struct {
	db *sql.DB
}

// SummaryKey identifies one (project, user, month) summary tuple.
type SummaryKey struct {
	ProjectID int64
	UserID    int64
	Month     string
}

// ProjectRollup is the derived budget/cost/profit cache maintained by the
// rollup worker. It can always be rebuilt from injections, entries and
// summaries.
type ProjectRollup struct {
	ProjectID   int64
	TotalBudget decimal.Decimal
	TotalCost   decimal.Decimal
	Profit      decimal.Decimal
	UpdatedAt   time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, name, role string, hourlyRate decimal.Decimal, apiToken string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, role, hourly_rate, api_token) VALUES (?, ?, ?, ?)`,
		name, role, core.FormatMoney(hourlyRate), apiToken)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, hourly_rate FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByToken resolves an API token to its identity. It backs the
// getUser() capability the HTTP layer consumes.
func (r *SQLiteRepository) GetUserByToken(ctx context.Context, token string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, hourly_rate FROM users WHERE api_token = ?`, token)
	return scanUser(row)
}

func (r *SQLiteRepository) UpdateUserRate(ctx context.Context, id int64, hourlyRate decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET hourly_rate = ? WHERE id = ?`, core.FormatMoney(hourlyRate), id)
	if err != nil {
		return fmt.Errorf("update user rate: %w", err)
	}
	return requireRow(res)
}

func scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	var rate string
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &rate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("parse user rate %q: %w", rate, err)
	}
	u.HourlyRate = d
	return &u, nil
}

// --- timer sessions ---

func (r *SQLiteRepository) CreateSession(ctx context.Context, s core.TimerSession) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var lastStart sql.NullInt64
	if !s.LastIntervalStart.IsZero() {
		lastStart = sql.NullInt64{Int64: s.LastIntervalStart.Unix(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO active_timer_sessions
		 (id, user_id, status, start_time, last_interval_start, accumulated_seconds, description, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, string(s.Status), s.StartTime.Unix(), lastStart,
		s.AccumulatedSeconds, s.Description, s.StartTime.Unix())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, userID int64, id string) (*core.TimerSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, start_time, last_interval_start, accumulated_seconds, description
		 FROM active_timer_sessions WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteRepository) GetSessionsByUser(ctx context.Context, userID int64) ([]core.TimerSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, status, start_time, last_interval_start, accumulated_seconds, description
		 FROM active_timer_sessions WHERE user_id = ? ORDER BY start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []core.TimerSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// PauseSession folds the current interval into the accumulated total and
// clears the interval start. The running precondition lives in the WHERE
// clause of the same statement that mutates, so a losing concurrent request
// observes zero rows rather than corrupting the total.
func (r *SQLiteRepository) PauseSession(ctx context.Context, userID int64, id string, now time.Time) (*core.TimerSession, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE active_timer_sessions
		 SET accumulated_seconds = accumulated_seconds + MAX(0, ? - last_interval_start),
		     last_interval_start = NULL,
		     status = 'paused',
		     updated_at = ?
		 WHERE id = ? AND user_id = ? AND status = 'running'`,
		now.Unix(), now.Unix(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("pause session: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return r.GetSession(ctx, userID, id)
}

// ResumeSession opens a new interval. The paused precondition is carried in
// the statement itself, same as PauseSession.
func (r *SQLiteRepository) ResumeSession(ctx context.Context, userID int64, id string, now time.Time) (*core.TimerSession, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE active_timer_sessions
		 SET status = 'running', last_interval_start = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND status = 'paused'`,
		now.Unix(), now.Unix(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return r.GetSession(ctx, userID, id)
}

func (r *SQLiteRepository) UpdateSessionDescription(ctx context.Context, userID int64, id string, description string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE active_timer_sessions SET description = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		description, now.Unix(), id, userID)
	if err != nil {
		return fmt.Errorf("update session description: %w", err)
	}
	return requireRow(res)
}

// TakeSession removes the session and returns its final snapshot in one
// transaction. The delete is one-shot; a concurrent taker gets ErrNotFound.
func (r *SQLiteRepository) TakeSession(ctx context.Context, userID int64, id string) (*core.TimerSession, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin take session: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, user_id, status, start_time, last_interval_start, accumulated_seconds, description
		 FROM active_timer_sessions WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM active_timer_sessions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit take session: %w", err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*core.TimerSession, error) {
	var (
		s          core.TimerSession
		status     string
		startUnix  int64
		lastStart  sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.UserID, &status, &startUnix, &lastStart, &s.AccumulatedSeconds, &s.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	s.Status = core.SessionStatus(status)
	s.StartTime = time.Unix(startUnix, 0).UTC()
	if lastStart.Valid {
		s.LastIntervalStart = time.Unix(lastStart.Int64, 0).UTC()
	}
	return &s, nil
}

// --- time entries ---

func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, e core.TimeEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO time_entries (user_id, project_id, entry_date, duration_seconds, hourly_rate, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.ProjectID, e.Date.UTC().Format(dateLayout),
		e.DurationSeconds, core.FormatMoney(e.HourlyRate), e.Description)
	if err != nil {
		return 0, fmt.Errorf("create time entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("time entry insert id: %w", err)
	}

	slog.InfoContext(ctx, "Time entry saved",
		"id", id,
		"user_id", e.UserID,
		"project_id", e.ProjectID,
		"date", e.Date.UTC().Format(dateLayout),
		"duration_seconds", e.DurationSeconds)

	return id, nil
}

func (r *SQLiteRepository) GetTimeEntry(ctx context.Context, id int64) (*core.TimeEntry, error) {
	rows, err := r.queryEntries(ctx,
		`SELECT id, user_id, project_id, entry_date, duration_seconds, hourly_rate, description
		 FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, core.ErrNotFound
	}
	return &rows[0], nil
}

// ListEntriesBefore returns all committed entries dated strictly before the
// cutoff day, the summarizer's eligible set.
func (r *SQLiteRepository) ListEntriesBefore(ctx context.Context, cutoff time.Time) ([]core.TimeEntry, error) {
	return r.queryEntries(ctx,
		`SELECT id, user_id, project_id, entry_date, duration_seconds, hourly_rate, description
		 FROM time_entries WHERE entry_date < ? ORDER BY entry_date, id`,
		cutoff.UTC().Format(dateLayout))
}

func (r *SQLiteRepository) ListEntriesByUserMonth(ctx context.Context, userID int64, year int, month int) ([]core.TimeEntry, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	return r.queryEntries(ctx,
		`SELECT id, user_id, project_id, entry_date, duration_seconds, hourly_rate, description
		 FROM time_entries WHERE user_id = ? AND entry_date LIKE ? || '%' ORDER BY entry_date, id`,
		userID, prefix)
}

// ListEntriesByProjectSince returns entries for the live, not-yet-summarized
// period (dated on or after the cutoff).
func (r *SQLiteRepository) ListEntriesByProjectSince(ctx context.Context, projectID int64, since time.Time) ([]core.TimeEntry, error) {
	return r.queryEntries(ctx,
		`SELECT id, user_id, project_id, entry_date, duration_seconds, hourly_rate, description
		 FROM time_entries WHERE project_id = ? AND entry_date >= ? ORDER BY entry_date, id`,
		projectID, since.UTC().Format(dateLayout))
}

func (r *SQLiteRepository) queryEntries(ctx context.Context, query string, args ...any) ([]core.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	var entries []core.TimeEntry
	for rows.Next() {
		var (
			e    core.TimeEntry
			date string
			rate string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProjectID, &date, &e.DurationSeconds, &rate, &e.Description); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		e.Date, err = time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", date, err)
		}
		e.HourlyRate, err = decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("parse entry rate %q: %w", rate, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- monthly cost summaries ---

// ListSummaryKeys loads the duplicate-prevention index: every tuple that has
// already been materialized.
func (r *SQLiteRepository) ListSummaryKeys(ctx context.Context) ([]SummaryKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, user_id, month FROM monthly_cost_summaries`)
	if err != nil {
		return nil, fmt.Errorf("list summary keys: %w", err)
	}
	defer rows.Close()

	var keys []SummaryKey
	for rows.Next() {
		var k SummaryKey
		if err := rows.Scan(&k.ProjectID, &k.UserID, &k.Month); err != nil {
			return nil, fmt.Errorf("scan summary key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// InsertSummary inserts one summary row. The UNIQUE(project_id, user_id,
// month) constraint is the final safety net against overlapping runs; a
// conflicting insert is reported as skipped, never as an error.
func (r *SQLiteRepository) InsertSummary(ctx context.Context, s core.MonthlyCostSummary) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_cost_summaries (project_id, user_id, month, total_duration_seconds, total_cost)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (project_id, user_id, month) DO NOTHING`,
		s.ProjectID, s.UserID, s.Month.Key(), s.TotalDurationSeconds, core.FormatMoney(s.TotalCost))
	if err != nil {
		return false, fmt.Errorf("insert summary: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("summary rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) ListSummariesByProject(ctx context.Context, projectID int64) ([]core.MonthlyCostSummary, error) {
	return r.querySummaries(ctx,
		`SELECT project_id, user_id, month, total_duration_seconds, total_cost
		 FROM monthly_cost_summaries WHERE project_id = ? ORDER BY month, user_id`, projectID)
}

func (r *SQLiteRepository) ListSummaries(ctx context.Context) ([]core.MonthlyCostSummary, error) {
	return r.querySummaries(ctx,
		`SELECT project_id, user_id, month, total_duration_seconds, total_cost
		 FROM monthly_cost_summaries ORDER BY month, project_id, user_id`)
}

func (r *SQLiteRepository) querySummaries(ctx context.Context, query string, args ...any) ([]core.MonthlyCostSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []core.MonthlyCostSummary
	for rows.Next() {
		var (
			s     core.MonthlyCostSummary
			month string
			cost  string
		)
		if err := rows.Scan(&s.ProjectID, &s.UserID, &month, &s.TotalDurationSeconds, &cost); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Month, err = core.ParseMonthKey(month)
		if err != nil {
			return nil, err
		}
		s.TotalCost, err = decimal.NewFromString(cost)
		if err != nil {
			return nil, fmt.Errorf("parse summary cost %q: %w", cost, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *SQLiteRepository) CountSummaries(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM monthly_cost_summaries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}

// DeleteAllSummaries clears the summary table for a full backfill recompute.
func (r *SQLiteRepository) DeleteAllSummaries(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM monthly_cost_summaries`); err != nil {
		return fmt.Errorf("delete summaries: %w", err)
	}
	slog.InfoContext(ctx, "Monthly cost summaries cleared for backfill")
	return nil
}

// --- projects and budget ---

func (r *SQLiteRepository) CreateProject(ctx context.Context, name string) (*core.Project, error) {
	p := core.Project{Name: name}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO projects (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("project insert id: %w", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id int64) (*core.Project, error) {
	var p core.Project
	var created string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
	return &p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []core.Project
	for rows.Next() {
		var p core.Project
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &created); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) ListProjectIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list project ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) CreateInjection(ctx context.Context, b core.BudgetInjection) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_injections (project_id, amount, description, injected_at) VALUES (?, ?, ?, ?)`,
		b.ProjectID, core.FormatMoney(b.Amount), b.Description, b.InjectedAt.UTC().Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("create budget injection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("injection insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListInjections(ctx context.Context, projectID int64) ([]core.BudgetInjection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, amount, description, injected_at
		 FROM budget_injections WHERE project_id = ? ORDER BY injected_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list budget injections: %w", err)
	}
	defer rows.Close()

	var injections []core.BudgetInjection
	for rows.Next() {
		var (
			b        core.BudgetInjection
			amount   string
			injected string
		)
		if err := rows.Scan(&b.ID, &b.ProjectID, &amount, &b.Description, &injected); err != nil {
			return nil, fmt.Errorf("scan budget injection: %w", err)
		}
		b.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse injection amount %q: %w", amount, err)
		}
		b.InjectedAt, err = time.ParseInLocation(dateLayout, injected, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse injection date %q: %w", injected, err)
		}
		injections = append(injections, b)
	}
	return injections, rows.Err()
}

// --- project rollups ---

func (r *SQLiteRepository) UpsertRollup(ctx context.Context, rollup ProjectRollup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_rollups (project_id, total_budget, total_cost, profit, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (project_id) DO UPDATE SET
		   total_budget = excluded.total_budget,
		   total_cost = excluded.total_cost,
		   profit = excluded.profit,
		   updated_at = excluded.updated_at`,
		rollup.ProjectID, core.FormatMoney(rollup.TotalBudget), core.FormatMoney(rollup.TotalCost),
		core.FormatMoney(rollup.Profit), rollup.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert rollup: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetRollup(ctx context.Context, projectID int64) (*ProjectRollup, error) {
	var (
		rollup  ProjectRollup
		budget  string
		cost    string
		profit  string
		updated string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT project_id, total_budget, total_cost, profit, updated_at
		 FROM project_rollups WHERE project_id = ?`, projectID).
		Scan(&rollup.ProjectID, &budget, &cost, &profit, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get rollup: %w", err)
	}
	if rollup.TotalBudget, err = decimal.NewFromString(budget); err != nil {
		return nil, fmt.Errorf("parse rollup budget %q: %w", budget, err)
	}
	if rollup.TotalCost, err = decimal.NewFromString(cost); err != nil {
		return nil, fmt.Errorf("parse rollup cost %q: %w", cost, err)
	}
	if rollup.Profit, err = decimal.NewFromString(profit); err != nil {
		return nil, fmt.Errorf("parse rollup profit %q: %w", profit, err)
	}
	rollup.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &rollup, nil
}

// requireRow maps "no rows touched" to the NotFound error class: the row is
// absent, owned by someone else, or in the wrong status for the transition.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
