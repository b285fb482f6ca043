package web

import (
	"net/http"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/service"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	projects, err := s.deps.Projects.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]projectJSON, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Code     string `json:"code"`
		Title    string `json:"title"`
		Customer string `json:"customer"`
		Revision string `json:"revision"`
		DueDate  string `json:"due_date"`
		Priority int    `json:"priority"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.deps.Projects.Create(r.Context(), actor, service.CreateProjectInput{
		Code:     req.Code,
		Title:    req.Title,
		Customer: req.Customer,
		Revision: req.Revision,
		DueDate:  req.DueDate,
		Priority: req.Priority,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectJSON(p))
}

func (s *Server) handleGetProjectByCode(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	p, err := s.deps.Projects.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectJSON(p))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	p, err := s.deps.Projects.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectJSON(p))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Title    *string `json:"title"`
		Customer *string `json:"customer"`
		Revision *string `json:"revision"`
		DueDate  *string `json:"due_date"`
		Priority *int    `json:"priority"`
		Status   *string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.UpdateProjectInput{
		Title:    req.Title,
		Customer: req.Customer,
		Revision: req.Revision,
		DueDate:  req.DueDate,
		Priority: req.Priority,
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		in.Status = &status
	}
	p, err := s.deps.Projects.Update(r.Context(), actor, r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectJSON(p))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	if err := s.deps.Projects.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
