package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/machinetrack/shopfloor/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Unclassified
// errors are logged and reported as a plain 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConstraint):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.deps.Logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// actorFromRequest resolves the session cookie to an Actor. The zero Actor
// and false mean no valid session.
func (s *Server) actorFromRequest(r *http.Request) (service.Actor, bool) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return service.Actor{}, false
	}
	sess, ok := s.deps.Sessions.Get(cookie.Value)
	if !ok {
		return service.Actor{}, false
	}
	u, err := s.deps.Users.GetByID(r.Context(), sess.UserID)
	if err != nil || !u.IsActive {
		s.deps.Sessions.Delete(cookie.Value)
		return service.Actor{}, false
	}
	return service.ActorFor(u), true
}

// withActor gates a handler behind a live session.
func (s *Server) withActor(h func(w http.ResponseWriter, r *http.Request, actor service.Actor)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := s.actorFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		h(w, r, actor)
	}
}

// requireSession gates a plain http.Handler (the websocket) the same way.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.actorFromRequest(r); !ok {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// optionalUserFilter reads the ?user= dashboard filter.
func optionalUserFilter(r *http.Request) *string {
	if v := r.URL.Query().Get("user"); v != "" {
		return &v
	}
	return nil
}
