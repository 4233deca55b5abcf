package http

import (
	"net/http"
	"time"

	"tempo/internal/core"
)

// entryJSON is the wire form of a committed time entry. The hourly rate and
// cost are decimal strings, never floats.
type entryJSON struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	ProjectID       int64  `json:"projectId"`
	Date            string `json:"date"`
	DurationSeconds int64  `json:"durationSeconds"`
	HourlyRate      string `json:"hourlyRate"`
	Description     string `json:"description,omitempty"`
	Cost            string `json:"cost"`
}

func toEntryJSON(e core.TimeEntry) entryJSON {
	return entryJSON{
		ID:              e.ID,
		UserID:          e.UserID,
		ProjectID:       e.ProjectID,
		Date:            e.Date.UTC().Format("2006-01-02"),
		DurationSeconds: e.DurationSeconds,
		HourlyRate:      core.FormatMoney(e.HourlyRate),
		Description:     e.Description,
		Cost:            core.FormatMoney(e.Cost().Round(2)),
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req struct {
		ProjectID       int64  `json:"projectId"`
		Date            string `json:"date"`
		DurationSeconds int64  `json:"durationSeconds"`
		Description     string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	entry, err := s.entries.Create(r.Context(), user.ID, req.ProjectID, date,
		req.DurationSeconds, sanitizeInput(req.Description))
	if err != nil {
		writeError(w, r, err)
		return
	}

	// New cost moved the project's derived figures.
	s.invalidateFigures(entry.ProjectID)

	writeJSON(w, http.StatusCreated, toEntryJSON(*entry))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	year, month := parseYearMonth(r)
	entries, err := s.entries.ListMonth(r.Context(), user.ID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}

	writeJSON(w, http.StatusOK, struct {
		Year    int         `json:"year"`
		Month   int         `json:"month"`
		Entries []entryJSON `json:"entries"`
	}{Year: year, Month: month, Entries: out})
}
