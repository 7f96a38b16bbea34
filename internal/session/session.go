// Package session holds the login state of a browser session.
//
// A Session is loaded from a Store at the start of each request, travels in
// the request context, and is saved back when a handler changes it. There is
// no process-wide login state.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Load when the id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session is the per-browser state. The zero value (apart from ID) is Anonymous.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`

	// Flash is a one-shot message shown on the next rendered page.
	Flash *Flash `json:"flash,omitempty"`
}

// FlashKind selects how a flash message is styled.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is a message carried across a redirect. Field names the form input
// the message is about, if any.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// New returns an Anonymous session with a fresh random id.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// LoggedIn reports whether the session is Authenticated.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Username != ""
}

// Authenticate moves the session to Authenticated(username).
func (s *Session) Authenticate(username string) {
	s.Username = username
}

// Clear moves the session back to Anonymous. Calling it twice is harmless.
func (s *Session) Clear() {
	s.Username = ""
	s.Flash = nil
}

// SetFlash stores a message for the next page.
func (s *Session) SetFlash(kind FlashKind, message string) {
	s.Flash = &Flash{Kind: kind, Message: message}
}

// SetFieldFlash stores an error message about one form field.
func (s *Session) SetFieldFlash(field, message string) {
	s.Flash = &Flash{Kind: FlashError, Message: message, Field: field}
}

// PopFlash returns the pending flash message and removes it.
func (s *Session) PopFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}

// Store persists sessions between requests.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// DefaultTTL is used by stores created with a non-positive ttl.
const DefaultTTL = 24 * time.Hour
