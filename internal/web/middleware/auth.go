package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/vendas/internal/config"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/session"
)

// LoginPath is where RequireLogin sends anonymous visitors.
const LoginPath = "/login"

// Sessions binds browser cookies to sessions kept in a session.Store.
type Sessions struct {
	store  session.Store
	name   string
	secure bool
	ttl    time.Duration
}

// NewSessions creates a cookie manager over store.
func NewSessions(store session.Store, cfg config.SessionConfig) *Sessions {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	name := cfg.CookieName
	if name == "" {
		name = "session_id"
	}
	return &Sessions{store: store, name: name, secure: cfg.SecureCookie, ttl: ttl}
}

// Load puts the request's session in the context. Visitors without a valid
// cookie get a fresh Anonymous session, which is only stored once a handler
// saves it.
func (m *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.lookup(r)

		ctx := session.WithSession(r.Context(), sess)
		if sess.LoggedIn() {
			ctx = logging.WithUser(ctx, sess.Username)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Sessions) lookup(r *http.Request) *session.Session {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return session.New()
	}

	sess, err := m.store.Load(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logging.FromContext(r.Context()).Warn("session: load failed", "error", err)
		}
		return session.New()
	}
	return sess
}

// Save stores sess and (re)sends its cookie.
func (m *Sessions) Save(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	if err := m.store.Save(r.Context(), sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	http.SetCookie(w, m.cookie(sess.ID, int(m.ttl.Seconds())))
	return nil
}

// Renew gives sess a new id and forgets the old one. Called on login so a
// session id seen before authentication is never reused afterwards.
func (m *Sessions) Renew(ctx context.Context, sess *session.Session) {
	old := sess.ID
	sess.ID = session.New().ID
	if err := m.store.Delete(ctx, old); err != nil {
		logging.FromContext(ctx).Warn("session: delete old id failed", "error", err)
	}
}

// Destroy removes sess from the store and expires the cookie.
func (m *Sessions) Destroy(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	http.SetCookie(w, m.cookie("", -1))
	if sess == nil {
		return nil
	}
	if err := m.store.Delete(r.Context(), sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *Sessions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequireLogin redirects Anonymous sessions to LoginPath.
// It must run after Sessions.Load.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).LoggedIn() {
			logging.FromContext(r.Context()).Debug("auth: redirecting anonymous request", "path", r.URL.Path)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
