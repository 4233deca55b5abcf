package http

import (
	"net/http"
	"time"

	"tempo/internal/core"
	"tempo/internal/services"
)

// sessionJSON is the wire form of a timer session.
type sessionJSON struct {
	ID                 string     `json:"id"`
	UserID             int64      `json:"userId"`
	Status             string     `json:"status"`
	StartTime          time.Time  `json:"startTime"`
	LastIntervalStart  *time.Time `json:"lastIntervalStart,omitempty"`
	AccumulatedSeconds int64      `json:"accumulatedSeconds"`
	Description        string     `json:"description,omitempty"`
}

func toSessionJSON(s core.TimerSession) sessionJSON {
	out := sessionJSON{
		ID:                 s.ID,
		UserID:             s.UserID,
		Status:             string(s.Status),
		StartTime:          s.StartTime,
		AccumulatedSeconds: s.AccumulatedSeconds,
		Description:        s.Description,
	}
	if !s.LastIntervalStart.IsZero() {
		t := s.LastIntervalStart
		out.LastIntervalStart = &t
	}
	return out
}

// activeSessionJSON adds the live projection computed at read time.
type activeSessionJSON struct {
	sessionJSON
	CurrentElapsedTotal int64 `json:"currentElapsedTotal"`
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	session, err := s.timers.Start(r.Context(), user.ID, sanitizeInput(req.Description))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Action  string      `json:"action"`
		Session sessionJSON `json:"session"`
	}{Action: "started", Session: toSessionJSON(*session)})
}

func (s *Server) handleTimerActive(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	views, err := s.timers.GetActive(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sessions := make([]activeSessionJSON, len(views))
	for i, v := range views {
		sessions[i] = activeSessionJSON{
			sessionJSON:         toSessionJSON(v.Session),
			CurrentElapsedTotal: v.CurrentElapsedTotal,
		}
	}

	writeJSON(w, http.StatusOK, struct {
		HasActiveSessions bool                `json:"hasActiveSessions"`
		Sessions          []activeSessionJSON `json:"sessions"`
	}{HasActiveSessions: len(sessions) > 0, Sessions: sessions})
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	session, totalElapsed, err := s.timers.Pause(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Action       string      `json:"action"`
		Session      sessionJSON `json:"session"`
		TotalElapsed int64       `json:"totalElapsed"`
	}{Action: "paused", Session: toSessionJSON(*session), TotalElapsed: totalElapsed})
}

func (s *Server) handleTimerResume(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	session, err := s.timers.Resume(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Action  string      `json:"action"`
		Session sessionJSON `json:"session"`
	}{Action: "resumed", Session: toSessionJSON(*session)})
}

func (s *Server) handleTimerEnd(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	result, err := s.timers.End(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Action        string    `json:"action"`
		FinalDuration int64     `json:"finalDuration"`
		StartTime     time.Time `json:"startTime"`
		EndTime       time.Time `json:"endTime"`
	}{Action: "ended", FinalDuration: result.FinalDuration, StartTime: result.StartTime, EndTime: result.EndTime})
}

func (s *Server) handleTimerSync(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req struct {
		Description *string `json:"description"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	var patch services.SessionPatch
	if req.Description != nil {
		clean := sanitizeInput(*req.Description)
		patch.Description = &clean
	}

	view, err := s.timers.Sync(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Action              string `json:"action"`
		CurrentElapsedTotal int64  `json:"currentElapsedTotal"`
		Status              string `json:"status"`
	}{Action: "synced", CurrentElapsedTotal: view.CurrentElapsedTotal, Status: string(view.Session.Status)})
}
