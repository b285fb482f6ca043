package web

import (
	"net/http"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/service"
)

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request, _ service.Actor) {
	machines, err := s.deps.Machines.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]machineJSON, 0, len(machines))
	for _, m := range machines {
		out = append(out, toMachineJSON(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateMachine(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Name   string `json:"name"`
		Type   string `json:"type"`
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.deps.Machines.Create(r.Context(), actor, service.CreateMachineInput{
		Name:   req.Name,
		Type:   req.Type,
		Status: domain.MachineStatus(req.Status),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMachineJSON(m))
}

func (s *Server) handleMachineStatus(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.deps.Machines.UpdateStatus(r.Context(), actor, r.PathValue("id"), domain.MachineStatus(req.Status))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMachineJSON(m))
}

func (s *Server) handleDeleteMachine(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	if err := s.deps.Machines.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
