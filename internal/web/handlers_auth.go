package web

import (
	"net/http"

	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/service"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.deps.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Bad credentials are a 401, not the usual 403 mapping.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	sess, err := s.deps.Sessions.Create(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.deps.Logger.Info().Str("user", u.Email).Msg("login")
	writeJSON(w, http.StatusOK, toUserJSON(u))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		s.deps.Sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, actor service.Actor) {
	u, err := s.deps.Users.GetByID(r.Context(), actor.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(u))
}
