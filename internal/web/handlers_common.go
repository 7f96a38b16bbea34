package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/JonMunkholm/vendas/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// recentSalesLimit is how many sales the sales page lists.
const recentSalesLimit = 20

// pageParams builds the shared page state and consumes the pending flash.
func (s *Server) pageParams(w http.ResponseWriter, r *http.Request, title, active string) templates.PageParams {
	p := templates.PageParams{
		Title:   title,
		Sidebar: templates.SidebarParams{ActivePage: active},
	}

	sess := session.FromContext(r.Context())
	if sess == nil {
		return p
	}
	p.Sidebar.Username = sess.Username
	if p.Flash = sess.PopFlash(); p.Flash != nil {
		s.saveSession(w, r, sess)
	}
	return p
}

// render writes a full page. The component is rendered into a buffer first
// so a template failure still produces a clean error response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		s.respondError(w, r, fmt.Errorf("render page: %w", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// redirectWithFlash stores a flash message and redirects (POST-redirect-GET).
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind session.FlashKind, msg, to string) {
	if sess := session.FromContext(r.Context()); sess != nil {
		sess.SetFlash(kind, msg)
		s.saveSession(w, r, sess)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// saveSession persists the session. A failed save only loses the flash or
// the login, so it is logged instead of failing the request.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := s.sessions.Save(w, r, sess); err != nil {
		logging.FromContext(r.Context()).Error("session save failed", "error", err)
	}
}

// productIDParam reads the {id} route parameter.
func productIDParam(r *http.Request) (int32, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("product id %q: %w", raw, core.ErrNotFound)
	}
	return int32(id), nil
}

// fieldError ties an input error to the form field it came from so the
// page can highlight it.
func fieldError(field, value string, err error) error {
	return &core.ValidationError{Field: field, Value: value, Err: err}
}

// parseReportFilter reads the start, end and produto query parameters of a
// report. An empty or zero produto selects every product.
func parseReportFilter(r *http.Request) (core.ReportFilter, error) {
	q := r.URL.Query()

	var (
		f   core.ReportFilter
		err error
	)
	if f.Start, err = core.ParseDate(q.Get("start")); err != nil {
		return f, fieldError("start", q.Get("start"), err)
	}
	if f.End, err = core.ParseDate(q.Get("end")); err != nil {
		return f, fieldError("end", q.Get("end"), err)
	}
	if raw := q.Get("produto"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || id < 0 {
			return f, fieldError("produto", raw, core.ErrProductNotFound)
		}
		f.ProductID = int32(id)
	}
	return f, nil
}
