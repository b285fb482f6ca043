package web

import (
	"net/http"
	"strconv"

	"github.com/machinetrack/shopfloor/internal/service"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	rows, err := s.deps.Dashboard.Progress(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]progressJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, progressJSON{
			ProjectID: row.ProjectID,
			Code:      row.Code,
			Title:     row.Title,
			Done:      row.Done,
			Total:     row.Total,
			Pct:       row.Pct,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWorkload(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	entries, err := s.deps.Dashboard.Workload(r.Context(), optionalUserFilter(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]workloadJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, workloadJSON{
			UserID:    e.UserID,
			UserName:  e.UserName,
			TaskCount: e.TaskCount,
			EstHours:  e.EstHours,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDueSoon(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	tasks, err := s.deps.Dashboard.DueSoon(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskListJSON(tasks))
}

func (s *Server) handleBlocked(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	tasks, err := s.deps.Dashboard.Blocked(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskListJSON(tasks))
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	board, err := s.deps.Dashboard.Board(r.Context(), optionalUserFilter(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardJSON(board))
}

func (s *Server) handleRecentAudit(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	audits, err := s.deps.Audits.Recent(r.Context(), actor, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]auditJSON, 0, len(audits))
	for _, a := range audits {
		out = append(out, toAuditJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEntityAudit(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	audits, err := s.deps.Audits.ForEntity(r.Context(), r.PathValue("entityType"), r.PathValue("entityID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]auditJSON, 0, len(audits))
	for _, a := range audits {
		out = append(out, toAuditJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.csv"`)
	if _, err := s.deps.Exporter.WriteTasks(r.Context(), w); err != nil {
		s.deps.Logger.Error().Err(err).Msg("csv export failed")
	}
}
