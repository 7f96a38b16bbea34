package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"25", "R$ 25,00"},
		{"6.5", "R$ 6,50"},
		{"999.999", "R$ 1.000,00"},
		{"1234.5", "R$ 1.234,50"},
		{"1000000", "R$ 1.000.000,00"},
		{"-12.3", "-R$ 12,30"},
	}

	for _, tt := range tests {
		if got := Money(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("Money(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(DefaultFormat) })

	Configure(Format{CurrencySymbol: "US$", DateLayout: "2006-01-02"})

	if got := Money(decimal.NewFromInt(3)); got != "US$ 3,00" {
		t.Errorf("Money() = %q, want %q", got, "US$ 3,00")
	}
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	if got := Date(day); got != "2024-03-07" {
		t.Errorf("Date() = %q, want %q", got, "2024-03-07")
	}

	Configure(Format{})
	if got := Date(day); got != "07/03/2024" {
		t.Errorf("Date() after reset = %q, want %q", got, "07/03/2024")
	}
}

func TestLayout_SidebarOnlyWhenLoggedIn(t *testing.T) {
	out := render(t, Login(LoginPage{PageParams: PageParams{Title: "Login"}}))
	if strings.Contains(out, `class="sidebar"`) {
		t.Error("login page renders the sidebar")
	}

	out = render(t, Home(HomePage{
		PageParams: PageParams{Title: "Home", Sidebar: SidebarParams{ActivePage: "home", Username: "alice"}},
	}))
	if !strings.Contains(out, "alice") {
		t.Error("sidebar does not show the username")
	}
	for _, item := range Menu {
		if !strings.Contains(out, `href="`+item.Href+`"`) {
			t.Errorf("menu entry %s missing", item.Label)
		}
	}
	if !strings.Contains(out, `action="/logout"`) {
		t.Error("logout button missing")
	}
	if !strings.Contains(out, `class="active"`) {
		t.Error("active menu entry not marked")
	}
}

func TestHome_Summary(t *testing.T) {
	out := render(t, Home(HomePage{
		PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}},
		Today:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Summary:    core.Summary{Count: 3, Total: decimal.RequireFromString("31")},
	}))

	for _, want := range []string{"01/01/2024", ">3<", "R$ 31,00"} {
		if !strings.Contains(out, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestFlash(t *testing.T) {
	out := render(t, Products(ProductsPage{
		PageParams: PageParams{
			Sidebar: SidebarParams{Username: "alice"},
			Flash:   &session.Flash{Kind: session.FlashSuccess, Message: "Produto cadastrado com sucesso!"},
		},
	}))

	if !strings.Contains(out, "alert-success") || !strings.Contains(out, "Produto cadastrado com sucesso!") {
		t.Errorf("flash not rendered:\n%s", out)
	}
}

func TestProducts_EscapesNames(t *testing.T) {
	out := render(t, Products(ProductsPage{
		PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}},
		Products:   []core.Product{{ID: 1, Name: "<script>x</script>", Price: decimal.NewFromInt(1)}},
	}))

	if strings.Contains(out, "<script>x</script>") {
		t.Error("product name was not escaped")
	}
}

func TestStatistics_Empty(t *testing.T) {
	out := render(t, Statistics(StatisticsPage{PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}}}))

	if !strings.Contains(out, "Sem dados disponíveis.") {
		t.Error("empty statistics message missing")
	}
	if strings.Contains(out, "<iframe") {
		t.Error("chart rendered without data")
	}
}

func TestReports_ExportLinks(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := render(t, Reports(ReportsPage{
		PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}},
		Filter:     core.ReportFilter{Start: day, End: day.AddDate(0, 0, 1)},
		Submitted:  true,
		Rows:       []core.ReportRow{{SaleID: 1, Date: day, ProductName: "Caneta", Quantity: 2, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(10)}},
		Totals:     []core.DayTotal{{Date: day, Total: decimal.NewFromInt(10)}},
		GrandTotal: decimal.NewFromInt(10),
	}))

	if !strings.Contains(out, `/reports/export.xlsx?start=2024-01-01&amp;end=2024-01-02`) {
		t.Errorf("xlsx link missing or mangled:\n%s", out)
	}
	if !strings.Contains(out, "Total Geral: R$ 10,00") {
		t.Error("grand total missing")
	}
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert("Produto já cadastrado!", "Escolha outro nome.", "CAT001"))

	for _, want := range []string{"Produto já cadastrado!", "Escolha outro nome.", "CAT001"} {
		if !strings.Contains(out, want) {
			t.Errorf("alert missing %q", want)
		}
	}
	if strings.Contains(out, "<html") {
		t.Error("alert rendered with the layout")
	}
}

func TestReports_ProductFilter(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	page := ReportsPage{
		PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}},
		Filter:     core.ReportFilter{Start: day, End: day, ProductID: 2},
		Products:   []core.Product{{ID: 1, Name: "Caneta"}, {ID: 2, Name: "Lápis"}},
		Submitted:  true,
		Rows:       []core.ReportRow{{SaleID: 1, Date: day, ProductName: "Lápis", Quantity: 1, UnitPrice: decimal.NewFromInt(2), LineTotal: decimal.NewFromInt(2)}},
	}
	out := render(t, Reports(page))

	if !strings.Contains(out, `<option value="2" selected>Lápis</option>`) {
		t.Errorf("selected product not marked:\n%s", out)
	}
	if strings.Contains(out, `<option value="1" selected>`) {
		t.Error("unselected product marked")
	}
	if !strings.Contains(out, `/reports/export.csv?start=2024-01-01&amp;end=2024-01-01&amp;produto=2`) {
		t.Errorf("csv link does not carry the product:\n%s", out)
	}
}

func TestReports_Problem(t *testing.T) {
	out := render(t, Reports(ReportsPage{
		PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}},
		Submitted:  true,
		Problem: &core.UserError{
			User:  core.UserMessage{Code: "VAL001", Message: "Data inválida."},
			Field: "end",
		},
	}))

	if !strings.Contains(out, `role="alert"`) || !strings.Contains(out, "VAL001") {
		t.Errorf("problem not rendered:\n%s", out)
	}
	if !strings.Contains(out, `id="end" name="end" type="date" value="" required aria-invalid="true"`) {
		t.Errorf("end date not highlighted:\n%s", out)
	}
	if strings.Contains(out, `id="start" name="start" type="date" value="" required aria-invalid`) {
		t.Error("start date highlighted")
	}
}

func TestProducts_HighlightsInvalidPrice(t *testing.T) {
	flash := &session.Flash{Kind: session.FlashError, Message: "Número inválido.", Field: "preco"}

	out := render(t, Products(ProductsPage{
		PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}, Flash: flash},
	}))
	if !strings.Contains(out, `placeholder="0,00" required aria-invalid="true"`) {
		t.Errorf("price input not highlighted:\n%s", out)
	}

	out = render(t, Products(ProductsPage{
		PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}, Flash: flash},
		Editing:    &core.Product{ID: 1, Name: "Caneta", Price: decimal.NewFromInt(2)},
	}))
	if !strings.Contains(out, `value="2.00" required aria-invalid="true"`) {
		t.Errorf("edit price input not highlighted:\n%s", out)
	}
	if strings.Contains(out, `placeholder="0,00" required aria-invalid`) {
		t.Error("create form highlighted while editing")
	}
}

func TestPageParams_Invalid(t *testing.T) {
	var p PageParams
	if p.Invalid("preco") {
		t.Error("no flash marks a field")
	}
	p.Flash = &session.Flash{Kind: session.FlashError, Message: "x"}
	if p.Invalid("") {
		t.Error("flash without a field marks the empty name")
	}
	p.Flash.Field = "quantidade"
	if !p.Invalid("quantidade") || p.Invalid("data") {
		t.Error("Invalid does not follow the flash field")
	}
}

func TestAudit(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	out := render(t, Audit(AuditPage{
		PageParams: PageParams{Sidebar: SidebarParams{ActivePage: "audit", Username: "alice"}},
		Entries: []core.AuditEntry{{
			ID:        "1",
			Action:    core.ActionProductDelete,
			Severity:  core.SeverityHigh,
			Username:  "alice",
			EntityID:  "7",
			Detail:    map[string]any{"quantidade": 2},
			IPAddress: "10.0.0.1",
			CreatedAt: at,
		}},
		Filter:     core.AuditFilter{Severity: core.SeverityHigh},
		Actions:    core.AuditActions,
		Severities: []core.AuditSeverity{core.SeverityLow, core.SeverityMedium, core.SeverityHigh},
	}))

	for _, want := range []string{
		"02/01/2024 15:04:05",
		`<td class="severity-high">high</td>`,
		`<option value="high" selected>high</option>`,
		"10.0.0.1",
		`{&#34;quantidade&#34;:2}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("audit page missing %q", want)
		}
	}
	if !strings.Contains(out, `href="/audit" class="active"`) {
		t.Error("audit menu entry not active")
	}
}

func TestAudit_Empty(t *testing.T) {
	out := render(t, Audit(AuditPage{PageParams: PageParams{Sidebar: SidebarParams{Username: "alice"}}}))

	if !strings.Contains(out, "Nenhum registro encontrado!") {
		t.Error("empty audit message missing")
	}
}
