package web

import (
	"net/http"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/service"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	tasks, err := s.deps.Tasks.ListByProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskListJSON(tasks))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		State       string  `json:"state"`
		Priority    int     `json:"priority"`
		EstHours    float64 `json:"est_hours"`
		DueDate     string  `json:"due_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := s.deps.Tasks.Create(r.Context(), actor, r.PathValue("id"), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		State:       domain.TaskState(req.State),
		Priority:    req.Priority,
		EstHours:    req.EstHours,
		DueDate:     req.DueDate,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskJSON(t))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	t, err := s.deps.Tasks.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	assignments, err := s.deps.Tasks.Assignments(r.Context(), t.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	rows := make([]assignmentJSON, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, toAssignmentJSON(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": toTaskJSON(t), "assignments": rows})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		State       *string  `json:"state"`
		Priority    *int     `json:"priority"`
		EstHours    *float64 `json:"est_hours"`
		DueDate     *string  `json:"due_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		EstHours:    req.EstHours,
		DueDate:     req.DueDate,
	}
	if req.State != nil {
		state := domain.TaskState(*req.State)
		in.State = &state
	}
	t, err := s.deps.Tasks.Update(r.Context(), actor, r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskJSON(t))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	if err := s.deps.Tasks.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		UserIDs   []string `json:"user_ids"`
		MachineID *string  `json:"machine_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := s.deps.Tasks.Assign(r.Context(), actor, r.PathValue("id"), req.UserIDs, req.MachineID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	err := s.deps.Tasks.Unassign(r.Context(), actor, r.PathValue("id"), r.PathValue("assignmentID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unassigned"})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	comments, err := s.deps.Tasks.Comments(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]commentJSON, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Body string `json:"body"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.deps.Tasks.Comment(r.Context(), actor, r.PathValue("id"), req.Body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentJSON{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Author:    actor.Name,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	})
}
