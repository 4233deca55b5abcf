package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tempo/internal/core"
	"tempo/internal/storage"
)

// TimerService drives the active-session state machine. Elapsed time is
// always derived from persisted checkpoints and the server clock at the
// instant of the call; client-supplied timestamps never enter the math.
type TimerService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewTimerService(storage *storage.SQLiteRepository) *TimerService {
	return &TimerService{
		storage: storage,
		now:     time.Now,
	}
}

// WithClock replaces the wall-clock source. Production code keeps time.Now;
// tests inject a controlled clock.
func (s *TimerService) WithClock(now func() time.Time) *TimerService {
	s.now = now
	return s
}

// SessionView pairs a stored session with its live projection.
type SessionView struct {
	Session             core.TimerSession
	CurrentElapsedTotal int64
}

// EndResult is the one-shot outcome of ending a session. The caller is
// responsible for committing FinalDuration as a time entry; the session
// itself is gone.
type EndResult struct {
	FinalDuration int64
	StartTime     time.Time
	EndTime       time.Time
}

// SessionPatch carries partial updates: a nil field means "leave unchanged",
// a non-nil field sets the value (possibly to empty).
type SessionPatch struct {
	Description *string
}

// Start creates a new running session. Multiple concurrent sessions per user
// are permitted; single-running-at-a-time is a UI convenience policy, not a
// data-layer rule.
func (s *TimerService) Start(ctx context.Context, userID int64, description string) (*core.TimerSession, error) {
	now := s.now().UTC()
	session := core.TimerSession{
		ID:                uuid.NewString(),
		UserID:            userID,
		Status:            core.StatusRunning,
		StartTime:         now,
		LastIntervalStart: now,
		Description:       description,
	}
	if err := s.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Timer session started",
		"session_id", session.ID,
		"user_id", userID)

	return &session, nil
}

// GetActive returns every session owned by the user with its live elapsed
// total. Pure read-time projection; stored state is never touched.
func (s *TimerService) GetActive(ctx context.Context, userID int64) ([]SessionView, error) {
	sessions, err := s.storage.GetSessionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	views := make([]SessionView, len(sessions))
	for i, session := range sessions {
		views[i] = SessionView{
			Session:             session,
			CurrentElapsedTotal: session.ElapsedAt(now),
		}
	}
	return views, nil
}

// Pause folds the running interval into the accumulated total. Requires a
// running session owned by the caller; anything else is ErrNotFound.
func (s *TimerService) Pause(ctx context.Context, userID int64, sessionID string) (*core.TimerSession, int64, error) {
	session, err := s.storage.PauseSession(ctx, userID, sessionID, s.now().UTC())
	if err != nil {
		return nil, 0, err
	}

	slog.InfoContext(ctx, "Timer session paused",
		"session_id", sessionID,
		"user_id", userID,
		"total_seconds", session.AccumulatedSeconds)

	return session, session.AccumulatedSeconds, nil
}

// Resume reopens a paused session. The accumulated total is untouched; it
// already reflects all prior intervals.
func (s *TimerService) Resume(ctx context.Context, userID int64, sessionID string) (*core.TimerSession, error) {
	session, err := s.storage.ResumeSession(ctx, userID, sessionID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Timer session resumed",
		"session_id", sessionID,
		"user_id", userID)

	return session, nil
}

// End computes the final duration with the same formula as GetActive and
// deletes the session. Destructive and one-shot. A final duration of zero is
// a valid outcome, not an error.
func (s *TimerService) End(ctx context.Context, userID int64, sessionID string) (*EndResult, error) {
	snapshot, err := s.storage.TakeSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	result := &EndResult{
		FinalDuration: snapshot.ElapsedAt(now),
		StartTime:     snapshot.StartTime,
		EndTime:       now,
	}

	slog.InfoContext(ctx, "Timer session ended",
		"session_id", sessionID,
		"user_id", userID,
		"final_duration_seconds", result.FinalDuration)

	return result, nil
}

// Sync applies metadata updates without touching timing state and returns
// the live projection.
func (s *TimerService) Sync(ctx context.Context, userID int64, sessionID string, patch SessionPatch) (*SessionView, error) {
	if patch.Description != nil {
		if err := s.storage.UpdateSessionDescription(ctx, userID, sessionID, *patch.Description, s.now().UTC()); err != nil {
			return nil, err
		}
	}
	session, err := s.storage.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		Session:             *session,
		CurrentElapsedTotal: session.ElapsedAt(s.now().UTC()),
	}, nil
}
