package web

import (
	"net/http"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/service"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	users, err := s.deps.Users.List(r.Context(), actor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, toUserJSON(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.deps.Users.Create(r.Context(), actor, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserJSON(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Name     *string `json:"name"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
		Password *string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.UpdateUserInput{
		Name:     req.Name,
		IsActive: req.IsActive,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}
	u, err := s.deps.Users.Update(r.Context(), actor, r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(u))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	id := r.PathValue("id")
	if err := s.deps.Users.Delete(r.Context(), actor, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	// Deleted accounts must not keep working sessions.
	s.deps.Sessions.DeleteForUser(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
