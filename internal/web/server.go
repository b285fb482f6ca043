// Package web exposes the tracker as a JSON API plus the realtime socket.
package web

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/export"
	"github.com/machinetrack/shopfloor/internal/service"
	"github.com/rs/zerolog"
)

// Deps collects everything the server serves from.
type Deps struct {
	Logger    zerolog.Logger
	Users     service.UserService
	Machines  service.MachineService
	Projects  service.ProjectService
	Tasks     service.TaskService
	Dashboard service.DashboardService
	Audits    service.AuditService
	Exporter  *export.CSVExporter
	Sessions  *auth.SessionStore
	Hub       http.Handler
}

type Server struct {
	deps Deps
	mux  *http.ServeMux
}

func NewServer(deps Deps) *Server {
	s := &Server{deps: deps, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	mux := s.mux

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.withActor(s.handleMe))

	mux.HandleFunc("GET /api/users", s.withActor(s.handleListUsers))
	mux.HandleFunc("POST /api/users", s.withActor(s.handleCreateUser))
	mux.HandleFunc("PATCH /api/users/{id}", s.withActor(s.handleUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", s.withActor(s.handleDeleteUser))

	mux.HandleFunc("GET /api/machines", s.withActor(s.handleListMachines))
	mux.HandleFunc("POST /api/machines", s.withActor(s.handleCreateMachine))
	mux.HandleFunc("PATCH /api/machines/{id}/status", s.withActor(s.handleMachineStatus))
	mux.HandleFunc("DELETE /api/machines/{id}", s.withActor(s.handleDeleteMachine))

	mux.HandleFunc("GET /api/projects", s.withActor(s.handleListProjects))
	mux.HandleFunc("POST /api/projects", s.withActor(s.handleCreateProject))
	mux.HandleFunc("GET /api/projects/{id}", s.withActor(s.handleGetProject))
	mux.HandleFunc("GET /api/projects/code/{code}", s.withActor(s.handleGetProjectByCode))
	mux.HandleFunc("PATCH /api/projects/{id}", s.withActor(s.handleUpdateProject))
	mux.HandleFunc("DELETE /api/projects/{id}", s.withActor(s.handleDeleteProject))
	mux.HandleFunc("GET /api/projects/{id}/tasks", s.withActor(s.handleListTasks))
	mux.HandleFunc("POST /api/projects/{id}/tasks", s.withActor(s.handleCreateTask))

	mux.HandleFunc("GET /api/tasks/{id}", s.withActor(s.handleGetTask))
	mux.HandleFunc("PATCH /api/tasks/{id}", s.withActor(s.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.withActor(s.handleDeleteTask))
	mux.HandleFunc("POST /api/tasks/{id}/assign", s.withActor(s.handleAssign))
	mux.HandleFunc("DELETE /api/tasks/{id}/assignments/{assignmentID}", s.withActor(s.handleUnassign))
	mux.HandleFunc("GET /api/tasks/{id}/comments", s.withActor(s.handleListComments))
	mux.HandleFunc("POST /api/tasks/{id}/comments", s.withActor(s.handleCreateComment))

	mux.HandleFunc("GET /api/dashboard/progress", s.withActor(s.handleProgress))
	mux.HandleFunc("GET /api/dashboard/workload", s.withActor(s.handleWorkload))
	mux.HandleFunc("GET /api/dashboard/due-soon", s.withActor(s.handleDueSoon))
	mux.HandleFunc("GET /api/dashboard/blocked", s.withActor(s.handleBlocked))
	mux.HandleFunc("GET /api/dashboard/board", s.withActor(s.handleBoard))

	mux.HandleFunc("GET /api/audit", s.withActor(s.handleRecentAudit))
	mux.HandleFunc("GET /api/audit/{entityType}/{entityID}", s.withActor(s.handleEntityAudit))

	mux.HandleFunc("GET /api/export/tasks.csv", s.withActor(s.handleExportCSV))

	if s.deps.Hub != nil {
		mux.Handle("GET /ws", s.requireSession(s.deps.Hub))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.deps.Logger.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rec.status).
		Dur("elapsed", time.Since(start)).
		Msg("request")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack passes through so the websocket upgrade works behind the logger.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}
