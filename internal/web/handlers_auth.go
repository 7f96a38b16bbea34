package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/JonMunkholm/vendas/internal/web/templates"
)

// handleLoginPage renders the login form. Logged-in users go home.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).LoggedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, templates.Login(templates.LoginPage{
		PageParams: s.pageParams(w, r, "Login", ""),
	}))
}

// handleLogin checks the credentials and authenticates the session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sess := session.FromContext(ctx)
	username := r.PostFormValue("usuario")
	if err := s.service.Login(ctx, sess, username, r.PostFormValue("senha")); err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			s.redirectWithFlash(w, r, session.FlashError, "Usuário ou senha incorretos.", "/login")
			return
		}
		s.failForm(w, r, err, "/login")
		return
	}

	s.sessions.Renew(ctx, sess)
	logging.FromContext(ctx).Info("user logged in", "username", sess.Username)
	s.redirectWithFlash(w, r, session.FlashSuccess, fmt.Sprintf("Bem-vindo(a), %s!", sess.Username), "/")
}

// handleLogout ends the session. Repeating it is harmless.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	s.service.Logout(r.Context(), sess)
	if err := s.sessions.Destroy(w, r, sess); err != nil {
		logging.FromContext(r.Context()).Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRateLimited answers requests rejected by a rate limiter.
func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
}
