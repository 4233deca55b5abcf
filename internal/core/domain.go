package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusRunning SessionStatus = "running"
	StatusPaused  SessionStatus = "paused"
)

// secondsPerHour converts entry durations to billable hours.
var secondsPerHour = decimal.NewFromInt(3600)

type (
	SessionStatus string

	// TimerSession is an in-progress (running or paused), not-yet-committed
	// unit of tracked time. Elapsed time is never ticked server-side; it is
	// derived on demand from the persisted checkpoints (see ElapsedAt).
	TimerSession struct {
		ID     string
		UserID int64
		Status SessionStatus
		// StartTime is the session creation instant and never changes.
		StartTime time.Time
		// LastIntervalStart is the instant the current running interval
		// began. It is the zero time exactly when Status is paused.
		LastIntervalStart time.Time
		// AccumulatedSeconds covers all completed intervals. It only grows,
		// and only on a transition out of running.
		AccumulatedSeconds int64
		Description        string
	}

	// TimeEntry is a finalized, persisted record of worked time. HourlyRate
	// is the user's rate snapshotted at commit time; later rate changes must
	// not move historical cost.
	TimeEntry struct {
		ID              int64
		UserID          int64
		ProjectID       int64
		Date            time.Time // calendar day, UTC midnight
		DurationSeconds int64
		HourlyRate      decimal.Decimal
		Description     string
	}

	// MonthlyCostSummary is the immutable materialization of one
	// (project, user, month) tuple over a closed month.
	MonthlyCostSummary struct {
		ProjectID            int64
		UserID               int64
		Month                Month
		TotalDurationSeconds int64
		TotalCost            decimal.Decimal
	}

	User struct {
		ID         int64
		Name       string
		Role       string
		HourlyRate decimal.Decimal
	}

	Project struct {
		ID        int64
		Name      string
		CreatedAt time.Time
	}

	// BudgetInjection adds funds to a project budget. The project's total
	// budget is the sum of its injections.
	BudgetInjection struct {
		ID          int64
		ProjectID   int64
		Amount      decimal.Decimal
		Description string
		InjectedAt  time.Time
	}
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrInvalidRate      = errors.New("invalid rate")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidStatus    = errors.New("invalid session status")
)

// ElapsedAt returns the live total for the session at the given instant:
// accumulated seconds plus, for a running session, the seconds since the
// current interval began. It is a pure projection and the single formula
// shared by reads, syncs and session end.
func (s TimerSession) ElapsedAt(now time.Time) int64 {
	total := s.AccumulatedSeconds
	if s.Status == StatusRunning && !s.LastIntervalStart.IsZero() {
		if delta := now.Unix() - s.LastIntervalStart.Unix(); delta > 0 {
			total += delta
		}
	}
	return total
}

// Validate checks the session invariant: LastIntervalStart is set exactly
// when the session is running.
func (s TimerSession) Validate() error {
	switch s.Status {
	case StatusRunning:
		if s.LastIntervalStart.IsZero() {
			return ErrInvalidStatus
		}
	case StatusPaused:
		if !s.LastIntervalStart.IsZero() {
			return ErrInvalidStatus
		}
	default:
		return ErrInvalidStatus
	}
	if s.AccumulatedSeconds < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Cost returns the entry's unrounded cost: (duration / 3600) × hourly rate.
// Rounding to 2 fraction digits happens once, at summary insertion.
func (e TimeEntry) Cost() decimal.Decimal {
	return decimal.NewFromInt(e.DurationSeconds).
		Mul(e.HourlyRate).
		Div(secondsPerHour)
}

func (e TimeEntry) Validate() error {
	if e.DurationSeconds < 0 {
		return ErrInvalidDuration
	}
	if e.HourlyRate.IsNegative() {
		return ErrInvalidRate
	}
	if e.ProjectID <= 0 || e.UserID <= 0 {
		return ErrNotFound
	}
	if len(e.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	return nil
}

func (p Project) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return ErrEmptyName
	}
	if len(p.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}

func (b BudgetInjection) Validate() error {
	if b.ProjectID <= 0 {
		return ErrNotFound
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
