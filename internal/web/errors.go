package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (JSON or HTML)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err)) for page loads, or
//     failForm for form posts, which flashes the message and redirects
//  3. Error is wrapped in a core.UserError carrying the user message and,
//     for input errors, the form field to highlight
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in appropriate format for the client

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/JonMunkholm/vendas/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	ue := core.NewUserError(err)
	userMsg := ue.User

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", ue.Technical.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	s.respondErrorHTML(w, r, userMsg, statusCode)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error page, falling back to plain text.
func (s *Server) respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	p := templates.ErrorPage{
		PageParams: templates.PageParams{Title: "Erro"},
		Message:    msg.Message,
		Action:     msg.Action,
		Code:       msg.Code,
	}
	if sess := session.FromContext(r.Context()); sess.LoggedIn() {
		p.Sidebar.Username = sess.Username
	}

	var buf bytes.Buffer
	if err := templates.Error(p).Render(r.Context(), &buf); err != nil {
		http.Error(w, msg.Message+" ("+msg.Code+")", statusCode)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(buf.Bytes())
}

// failForm reports a failed form post. Errors the user can act on are
// flashed and the browser is sent back to redirectTo; anything else is an
// internal error.
func (s *Server) failForm(w http.ResponseWriter, r *http.Request, err error, redirectTo string) {
	if !core.IsUserFacing(err) {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	ue := core.NewUserError(err)
	logging.FromContext(r.Context()).Warn("form rejected",
		"path", r.URL.Path,
		"error", ue.Technical.Error(),
		"code", ue.User.Code,
		"field", ue.Field,
	)
	if sess := session.FromContext(r.Context()); sess != nil {
		sess.SetFieldFlash(ue.Field, ue.Display())
		s.saveSession(w, r, sess)
	}
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrProductNotFound),
		errors.Is(err, core.ErrNoRecords):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateName),
		errors.Is(err, core.ErrProductInUse):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidName),
		errors.Is(err, core.ErrInvalidPrice),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return r.URL.Path == "/healthz"
}
