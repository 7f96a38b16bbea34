package web

import (
	"net/http"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/web/templates"
)

// auditPageSize caps the entries shown on the audit page.
const auditPageSize = 100

// handleAuditLog renders the audit trail, newest first, filtered by the
// action, severity and usuario query parameters.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.AuditFilter{
		Action:   core.AuditAction(q.Get("action")),
		Severity: core.AuditSeverity(q.Get("severity")),
		Username: q.Get("usuario"),
		Limit:    auditPageSize,
	}

	entries, err := s.service.QueryAudit(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.render(w, r, templates.Audit(templates.AuditPage{
		PageParams: s.pageParams(w, r, "Auditoria", "audit"),
		Entries:    entries,
		Filter:     filter,
		Actions:    core.AuditActions,
		Severities: []core.AuditSeverity{core.SeverityLow, core.SeverityMedium, core.SeverityHigh},
	}))
}
