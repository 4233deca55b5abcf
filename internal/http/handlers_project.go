package http

import (
	"log/slog"
	"net/http"
	"time"

	"tempo/internal/core"
)

type projectJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProjectJSON(p core.Project) projectJSON {
	return projectJSON{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	project, err := s.projects.CreateProject(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectJSON(*project))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.ListProjects(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]projectJSON, len(projects))
	for i, p := range projects {
		out[i] = toProjectJSON(p)
	}
	writeJSON(w, http.StatusOK, struct {
		Projects []projectJSON `json:"projects"`
	}{Projects: out})
}

func (s *Server) handleCreateInjection(w http.ResponseWriter, r *http.Request) {
	projectID, err := parsePathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
		InjectedAt  string `json:"injectedAt"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	amount, err := core.ParseRate(req.Amount)
	if err != nil {
		writeError(w, r, core.ErrInvalidAmount)
		return
	}

	injectedAt := time.Now().UTC()
	if req.InjectedAt != "" {
		parsed, err := time.Parse("2006-01-02", req.InjectedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid injectedAt, expected YYYY-MM-DD"})
			return
		}
		injectedAt = parsed
	}

	injection := core.BudgetInjection{
		ProjectID:   projectID,
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		InjectedAt:  injectedAt,
	}
	id, err := s.projects.AddInjection(r.Context(), injection)
	if err != nil {
		writeError(w, r, err)
		return
	}
	injection.ID = id

	// Budget moved; derived figures are stale.
	s.invalidateFigures(projectID)

	writeJSON(w, http.StatusCreated, struct {
		ID          int64  `json:"id"`
		ProjectID   int64  `json:"projectId"`
		Amount      string `json:"amount"`
		Description string `json:"description,omitempty"`
		InjectedAt  string `json:"injectedAt"`
	}{
		ID:          injection.ID,
		ProjectID:   injection.ProjectID,
		Amount:      core.FormatMoney(injection.Amount),
		Description: injection.Description,
		InjectedAt:  injection.InjectedAt.UTC().Format("2006-01-02"),
	})
}

func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	projectID, err := parsePathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := s.figuresCacheKey(projectID)
	figures, found := s.figuresCache.Get(key)
	if !found {
		f, err := s.projects.Figures(r.Context(), projectID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		figures = *f
		s.figuresCache.Set(key, figures)
	} else {
		slog.DebugContext(r.Context(), "Project figures cache hit", "project_id", projectID)
	}

	writeJSON(w, http.StatusOK, struct {
		ProjectID   int64  `json:"projectId"`
		Name        string `json:"name"`
		TotalBudget string `json:"totalBudget"`
		TotalCost   string `json:"totalCost"`
		Profit      string `json:"profit"`
	}{
		ProjectID:   figures.Project.ID,
		Name:        figures.Project.Name,
		TotalBudget: core.FormatMoney(figures.TotalBudget),
		TotalCost:   core.FormatMoney(figures.TotalCost),
		Profit:      core.FormatMoney(figures.Profit),
	})
}
