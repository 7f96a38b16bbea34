// Package templates renders the HTML pages of the web UI.
//
// Pages are templ components. The *.templ files are the source and the
// matching *_templ.go files are what `templ generate` produces from them.
package templates

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/shopspring/decimal"
)

// MenuItem is one entry of the sidebar menu.
type MenuItem struct {
	Key   string
	Label string
	Href  string
}

// Menu lists the sidebar entries in display order.
var Menu = []MenuItem{
	{Key: "home", Label: "Home", Href: "/"},
	{Key: "products", Label: "Produtos", Href: "/products"},
	{Key: "sales", Label: "Vendas", Href: "/sales"},
	{Key: "reports", Label: "Relatórios", Href: "/reports"},
	{Key: "statistics", Label: "Estatísticas", Href: "/statistics"},
	{Key: "audit", Label: "Auditoria", Href: "/audit"},
}

// SidebarParams holds the state of the sidebar. An empty Username hides it.
type SidebarParams struct {
	ActivePage string
	Username   string
}

// PageParams is shared by every full page.
type PageParams struct {
	Title   string
	Sidebar SidebarParams
	Flash   *session.Flash
}

// Invalid reports whether the pending flash is about the named form field.
func (p PageParams) Invalid(field string) bool {
	return p.Flash != nil && p.Flash.Field != "" && p.Flash.Field == field
}

type LoginPage struct {
	PageParams
	Username string
}

type HomePage struct {
	PageParams
	Today   time.Time
	Summary core.Summary
}

type ProductsPage struct {
	PageParams
	Products []core.Product
	Editing  *core.Product
}

type SalesPage struct {
	PageParams
	Products []core.Product
	Recent   []core.RecentSale
	Today    time.Time
}

// ReportsPage is the range report view. Submitted is false until the form
// has been sent at least once. Problem holds a rejected filter, shown in
// place of the results.
type ReportsPage struct {
	PageParams
	Filter     core.ReportFilter
	Products   []core.Product
	Submitted  bool
	Empty      bool
	Problem    *core.UserError
	Rows       []core.ReportRow
	Totals     []core.DayTotal
	GrandTotal decimal.Decimal
}

// Invalid also covers the field named by Problem.
func (p ReportsPage) Invalid(field string) bool {
	if p.Problem != nil && p.Problem.Field == field {
		return true
	}
	return p.PageParams.Invalid(field)
}

// ExportURL is the download link of the current filter for path.
func (p ReportsPage) ExportURL(path string) string {
	u := path + "?start=" + InputDate(p.Filter.Start) + "&end=" + InputDate(p.Filter.End)
	if p.Filter.ProductID > 0 {
		u += "&produto=" + strconv.Itoa(int(p.Filter.ProductID))
	}
	return u
}

type StatisticsPage struct {
	PageParams
	Totals []core.DayTotal
}

// AuditPage lists audit entries with the filter that selected them.
type AuditPage struct {
	PageParams
	Entries    []core.AuditEntry
	Filter     core.AuditFilter
	Actions    []core.AuditAction
	Severities []core.AuditSeverity
}

type ErrorPage struct {
	PageParams
	Message string
	Action  string
	Code    string
}

func id(v int32) string {
	return strconv.Itoa(int(v))
}

// detail renders an audit detail map as compact JSON.
func detail(d map[string]any) string {
	if len(d) == 0 {
		return ""
	}
	b, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(b)
}
