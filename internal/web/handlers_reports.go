package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/web/templates"
)

// handleReports renders the range report. Without start and end in the
// query only the form is shown, prefilled with today.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := s.service.ListProducts(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	today := s.service.Today()
	page := templates.ReportsPage{
		Filter:   core.ReportFilter{Start: today, End: today},
		Products: products,
	}

	q := r.URL.Query()
	if q.Get("start") == "" && q.Get("end") == "" {
		page.PageParams = s.pageParams(w, r, "Relatórios", "reports")
		s.render(w, r, templates.Reports(page))
		return
	}
	page.Submitted = true

	f, err := parseReportFilter(r)
	if err == nil {
		page.Filter = f
		page.Rows, err = s.service.QueryReport(ctx, f)
	}

	switch {
	case errors.Is(err, core.ErrNoRecords):
		page.Empty = true
	case err != nil && core.IsUserFacing(err) && !errors.Is(err, core.ErrConnection):
		ue := core.NewUserError(err)
		logging.FromContext(ctx).Warn("report rejected", "error", err, "code", ue.User.Code, "field", ue.Field)
		page.Problem = ue
	case err != nil:
		s.respondError(w, r, err, statusFor(err))
		return
	default:
		page.Totals = core.DailyTotals(page.Rows)
		page.GrandTotal = core.GrandTotal(page.Rows)
	}

	page.PageParams = s.pageParams(w, r, "Relatórios", "reports")
	s.render(w, r, templates.Reports(page))
}

// reportRows loads the rows for a download, answering the request itself on error.
func (s *Server) reportRows(w http.ResponseWriter, r *http.Request) ([]core.ReportRow, bool) {
	f, err := parseReportFilter(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return nil, false
	}
	rows, err := s.service.QueryReport(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return nil, false
	}
	return rows, true
}

// handleExportXLSX downloads the report as a two-sheet workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.reportRows(w, r)
	if !ok {
		return
	}

	data, err := core.ExportSpreadsheet(rows, core.DailyTotals(rows))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("report exported", "format", "xlsx", "rows", len(rows))
	writeDownload(w, core.ExportContentType, core.ExportFileName, data)
}

// handleExportCSV downloads the detail rows as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.reportRows(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := core.WriteCSV(&buf, rows); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("report exported", "format", "csv", "rows", len(rows))
	writeDownload(w, "text/csv; charset=utf-8", core.ExportCSVFileName, buf.Bytes())
}

func writeDownload(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// handleStatistics renders the per-day totals over all history.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	totals, err := s.service.TotalsByDay(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.render(w, r, templates.Statistics(templates.StatisticsPage{
		PageParams: s.pageParams(w, r, "Estatísticas", "statistics"),
		Totals:     totals,
	}))
}

// handleStatisticsChart serves the standalone chart page shown in the
// statistics iframe.
func (s *Server) handleStatisticsChart(w http.ResponseWriter, r *http.Request) {
	totals, err := s.service.TotalsByDay(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if len(totals) == 0 {
		s.respondError(w, r, core.ErrNoRecords, http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := renderChart(&buf, totals); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
