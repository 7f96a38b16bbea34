package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/vendas/internal/config"
	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService keeps everything in memory and mimics the core error contract.
type fakeService struct {
	mu       sync.Mutex
	users    map[string]string
	products []core.Product
	sales    []core.Sale
	report   []core.ReportRow
	totals   []core.DayTotal
	audit    []core.AuditEntry
	pingErr  error
	listErr  error
	today    time.Time

	reportErr  error
	lastReport core.ReportFilter
	lastAudit  core.AuditFilter
}

func newFakeService() *fakeService {
	return &fakeService{
		users: map[string]string{"alice": "secret"},
		today: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeService) Ping(context.Context) error { return f.pingErr }

func (f *fakeService) Today() time.Time { return f.today }

func (f *fakeService) Login(_ context.Context, sess *session.Session, username, password string) error {
	if username == "" || password == "" || f.users[username] != password {
		return core.ErrInvalidCredentials
	}
	sess.Authenticate(username)
	return nil
}

func (f *fakeService) Logout(_ context.Context, sess *session.Session) {
	if sess != nil {
		sess.Clear()
	}
}

func (f *fakeService) ListProducts(context.Context) ([]core.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]core.Product(nil), f.products...), nil
}

func (f *fakeService) GetProduct(_ context.Context, id int32) (core.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Product{}, core.ErrNotFound
}

func (f *fakeService) CreateProduct(_ context.Context, name string, price decimal.Decimal) (core.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return core.Product{}, core.ErrInvalidName
	}
	for _, p := range f.products {
		if p.Name == name {
			return core.Product{}, core.ErrDuplicateName
		}
	}
	p := core.Product{ID: int32(len(f.products) + 1), Name: name, Price: price}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeService) UpdateProduct(_ context.Context, id int32, name string, price decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Name, f.products[i].Price = name, price
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeService) DeleteProduct(_ context.Context, id int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sales {
		if s.ProductID == id {
			return core.ErrProductInUse
		}
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeService) RecordSale(_ context.Context, productID int32, quantity int, date time.Time) (core.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if quantity < 1 {
		return core.Sale{}, core.ErrInvalidQuantity
	}
	if date.IsZero() {
		date = f.today
	}
	for _, p := range f.products {
		if p.ID == productID {
			s := core.Sale{ID: int32(len(f.sales) + 1), Date: date, ProductID: p.ID, Quantity: int32(quantity), UnitPrice: p.Price}
			f.sales = append(f.sales, s)
			return s, nil
		}
	}
	return core.Sale{}, core.ErrProductNotFound
}

func (f *fakeService) RecentSales(context.Context, int) ([]core.RecentSale, error) { return nil, nil }

func (f *fakeService) DailySummary(_ context.Context, date time.Time) (core.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := core.Summary{Total: decimal.Zero}
	for _, s := range f.sales {
		if s.Date.Equal(date) {
			sum.Count++
			sum.Total = sum.Total.Add(s.LineTotal())
		}
	}
	return sum, nil
}

func (f *fakeService) QueryReport(_ context.Context, filter core.ReportFilter) ([]core.ReportRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReport = filter
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	if filter.Start.After(filter.End) {
		return nil, core.ErrInvalidRange
	}
	if len(f.report) == 0 {
		return nil, core.ErrNoRecords
	}
	return f.report, nil
}

func (f *fakeService) TotalsByDay(context.Context) ([]core.DayTotal, error) {
	return f.totals, nil
}

func (f *fakeService) QueryAudit(_ context.Context, filter core.AuditFilter) ([]core.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAudit = filter
	return f.audit, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0, RequestTimeout: 5 * time.Second},
		Session:  config.SessionConfig{CookieName: "session_id", TTL: time.Hour},
		Rate:     config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1000, LoginLimit: 5},
		Security: config.SecurityConfig{EnableCSP: true},
		Display:  config.DisplayConfig{CurrencySymbol: "R$", DateLayout: "02/01/2006"},
	}
}

type testEnv struct {
	svc    *fakeService
	ts     *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := newFakeService()
	srv := NewServer(svc, session.NewMemoryStore(time.Hour), testConfig())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.stop()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testEnv{svc: svc, ts: ts, client: client}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := e.client.PostForm(e.ts.URL+path, form)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp := e.post(t, "/login", url.Values{"usuario": {"alice"}, "senha": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	env.svc.pingErr = errors.New("connection refused")
	resp, body = env.get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":"unavailable"}`, body)
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/login")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), chartAssetsHost)
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/products", "/sales", "/reports", "/statistics", "/statistics/chart", "/reports/export.xlsx", "/audit"} {
		resp, _ := env.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp := env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"2,50"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, env.svc.products, "anonymous post must not reach the service")
}

func TestLogin_Failure(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/login", url.Values{"usuario": {"alice"}, "senha": {"wrong"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := env.get(t, "/login")
	assert.Contains(t, body, "Usuário ou senha incorretos.")

	resp, _ = env.get(t, "/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "failed login must stay anonymous")
}

func TestLogin_SuccessAndLogout(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Bem-vindo(a), alice!")
	assert.Contains(t, body, "Resumo do Dia")
	assert.Contains(t, body, "R$ 0,00")

	// The welcome flash is shown once.
	_, body = env.get(t, "/")
	assert.NotContains(t, body, "Bem-vindo(a)")

	resp, _ = env.get(t, "/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "logged-in users skip the login page")

	resp = env.post(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = env.get(t, "/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestProducts_CreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp := env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"2,50"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body := env.get(t, "/products")
	assert.Contains(t, body, "Produto cadastrado com sucesso!")
	assert.Contains(t, body, "Caneta")
	assert.Contains(t, body, "R$ 2,50")

	env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"3"}})
	_, body = env.get(t, "/products")
	assert.Contains(t, body, "Produto já cadastrado!")
	assert.Len(t, env.svc.products, 1)

	env.post(t, "/products", url.Values{"nome": {"Lápis"}, "preco": {"abc"}})
	_, body = env.get(t, "/products")
	assert.Contains(t, body, "VAL002")

	_, body = env.get(t, "/products?edit=1")
	assert.Contains(t, body, `action="/products/1"`)

	resp = env.post(t, "/products/1", url.Values{"nome": {"Caneta Azul"}, "preco": {"3.10"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "Caneta Azul", env.svc.products[0].Name)
	assert.True(t, env.svc.products[0].Price.Equal(decimal.RequireFromString("3.10")))

	resp = env.post(t, "/products/99", url.Values{"nome": {"X"}, "preco": {"1"}})
	assert.Equal(t, "/products", resp.Header.Get("Location"))
	_, body = env.get(t, "/products")
	assert.Contains(t, body, "CAT002")

	env.post(t, "/products/1/delete", nil)
	_, body = env.get(t, "/products")
	assert.Contains(t, body, "Produto excluído!")
	assert.Empty(t, env.svc.products)
}

func TestProducts_DeleteInUse(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"2"}})
	env.post(t, "/sales", url.Values{"produto_id": {"1"}, "quantidade": {"1"}, "data": {"2024-01-01"}})
	env.post(t, "/products/1/delete", nil)

	_, body := env.get(t, "/products")
	assert.Contains(t, body, "CAT003")
	assert.Len(t, env.svc.products, 1)
}

func TestSales_Record(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, body := env.get(t, "/sales")
	assert.Contains(t, body, "Nenhum produto cadastrado!")

	env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"2,50"}})

	resp := env.post(t, "/sales", url.Values{"produto_id": {"1"}, "quantidade": {"4"}, "data": {""}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = env.get(t, "/sales")
	assert.Contains(t, body, "Venda registrada com sucesso!")
	require.Len(t, env.svc.sales, 1)
	assert.True(t, env.svc.sales[0].Date.Equal(env.svc.today), "empty date defaults to today")

	env.post(t, "/sales", url.Values{"produto_id": {"1"}, "quantidade": {"0"}})
	_, body = env.get(t, "/sales")
	assert.Contains(t, body, "VEN002")

	env.post(t, "/sales", url.Values{"produto_id": {"42"}, "quantidade": {"1"}})
	_, body = env.get(t, "/sales")
	assert.Contains(t, body, "VEN001")

	_, body = env.get(t, "/")
	assert.Contains(t, body, "R$ 10,00")
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, body := env.get(t, "/reports")
	assert.Contains(t, body, "Gerar Relatório")
	assert.NotContains(t, body, "Nenhum registro encontrado!")

	_, body = env.get(t, "/reports?start=2024-01-01&end=2024-01-31")
	assert.Contains(t, body, "Nenhum registro encontrado!")

	_, body = env.get(t, "/reports?start=2024-02-01&end=2024-01-01")
	assert.Contains(t, body, "REL002")

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env.svc.report = []core.ReportRow{
		{SaleID: 1, Date: day, ProductName: "Caneta", Quantity: 2, UnitPrice: decimal.RequireFromString("10"), LineTotal: decimal.RequireFromString("20")},
		{SaleID: 2, Date: day, ProductName: "Lápis", Quantity: 1, UnitPrice: decimal.RequireFromString("5"), LineTotal: decimal.RequireFromString("5")},
		{SaleID: 3, Date: day.AddDate(0, 0, 1), ProductName: "Lápis", Quantity: 3, UnitPrice: decimal.RequireFromString("2"), LineTotal: decimal.RequireFromString("6")},
	}
	_, body = env.get(t, "/reports?start=2024-01-01&end=2024-01-31")
	assert.Contains(t, body, "R$ 25,00")
	assert.Contains(t, body, "R$ 6,00")
	assert.Contains(t, body, "Total Geral: R$ 31,00")
}

func TestReports_Export(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, _ := env.get(t, "/reports/export.xlsx?start=2024-01-01&end=2024-01-31")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.svc.report = []core.ReportRow{{
		SaleID: 1, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ProductName: "Caneta",
		Quantity: 2, UnitPrice: decimal.RequireFromString("10"), LineTotal: decimal.RequireFromString("20"),
	}}

	resp, body := env.get(t, "/reports/export.xlsx?start=2024-01-01&end=2024-01-31")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, core.ExportContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), core.ExportFileName)
	assert.True(t, strings.HasPrefix(body, "PK"), "xlsx is a zip archive")

	resp, body = env.get(t, "/reports/export.csv?start=2024-01-01&end=2024-01-31")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), core.ExportCSVFileName)
	assert.True(t, strings.HasPrefix(body, "data,nome,quantidade,preco_unit,total"))

	resp, _ = env.get(t, "/reports/export.csv?start=bad&end=2024-01-31")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReports_ProductFilter(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"2"}})
	env.post(t, "/products", url.Values{"nome": {"Lápis"}, "preco": {"1"}})

	_, body := env.get(t, "/reports")
	assert.Contains(t, body, `<option value="2">Lápis</option>`)

	_, body = env.get(t, "/reports?start=2024-01-01&end=2024-01-31&produto=2")
	assert.Equal(t, int32(2), env.svc.lastReport.ProductID)
	assert.Contains(t, body, `<option value="2" selected>Lápis</option>`)

	env.get(t, "/reports?start=2024-01-01&end=2024-01-31&produto=0")
	assert.Zero(t, env.svc.lastReport.ProductID, "zero selects every product")

	env.svc.report = []core.ReportRow{{
		SaleID: 1, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ProductName: "Lápis",
		Quantity: 1, UnitPrice: decimal.RequireFromString("1"), LineTotal: decimal.RequireFromString("1"),
	}}
	_, body = env.get(t, "/reports?start=2024-01-01&end=2024-01-31&produto=2")
	assert.Contains(t, body, "export.xlsx?start=2024-01-01&amp;end=2024-01-31&amp;produto=2")

	resp, _ := env.get(t, "/reports/export.csv?start=2024-01-01&end=2024-01-31&produto=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), env.svc.lastReport.ProductID)

	_, body = env.get(t, "/reports?start=2024-01-01&end=2024-01-31&produto=abc")
	assert.Contains(t, body, "VEN001")
	assert.Contains(t, body, `name="produto" aria-invalid="true"`)
}

func TestReports_InvalidDateHighlightsField(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/reports?start=2024-01-01&end=ontem")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "VAL001")
	assert.Contains(t, body, `name="end" type="date" value="2024-01-01" required aria-invalid="true"`)
}

func TestReports_ConnectionErrorKeepsFlash(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.get(t, "/") // consume the welcome flash

	env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"2"}})
	env.svc.reportErr = errors.Join(core.ErrConnection, errors.New("dial tcp: connection refused"))

	resp, body := env.get(t, "/reports?start=2024-01-01&end=2024-01-31")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "DB001")

	env.svc.reportErr = nil
	_, body = env.get(t, "/products")
	assert.Contains(t, body, "Produto cadastrado com sucesso!", "the error page must not consume the flash")
}

func TestForms_HighlightInvalidField(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"abc"}})
	_, body := env.get(t, "/products")
	assert.Contains(t, body, `name="preco" type="text" inputmode="decimal" placeholder="0,00" required aria-invalid="true"`)

	_, body = env.get(t, "/products")
	assert.NotContains(t, body, "aria-invalid", "the highlight goes away with the flash")

	env.post(t, "/products", url.Values{"nome": {"Caneta"}, "preco": {"2"}})
	env.get(t, "/products")
	env.post(t, "/sales", url.Values{"produto_id": {"1"}, "quantidade": {"dois"}})
	_, body = env.get(t, "/sales")
	assert.Contains(t, body, "VAL002")
	assert.Contains(t, body, `value="1" required aria-invalid="true"`)

	env.post(t, "/sales", url.Values{"produto_id": {"1"}, "quantidade": {"1"}, "data": {"31/02/2024"}})
	_, body = env.get(t, "/sales")
	assert.Contains(t, body, "VAL001")
	assert.Contains(t, body, `name="data" type="date" value="2024-01-01" required aria-invalid="true"`)
}

func TestAuditLog(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, body := env.get(t, "/audit")
	assert.Contains(t, body, "Nenhum registro encontrado!")
	assert.Equal(t, core.AuditFilter{Limit: auditPageSize}, env.svc.lastAudit)

	env.svc.audit = []core.AuditEntry{
		{ID: "2", Action: core.ActionSaleRecord, Severity: core.SeverityLow, Username: "alice", EntityID: "9",
			CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{ID: "1", Action: core.ActionProductCreate, Severity: core.SeverityMedium, Username: "alice", EntityID: "1",
			CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}
	resp, body := env.get(t, "/audit?action=sale_record&severity=low&usuario=alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, core.AuditFilter{
		Action:   core.ActionSaleRecord,
		Severity: core.SeverityLow,
		Username: "alice",
		Limit:    auditPageSize,
	}, env.svc.lastAudit)

	newer := strings.Index(body, "02/01/2024 10:00:00")
	older := strings.Index(body, "01/01/2024 09:00:00")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older, "entries keep the newest-first order")
	assert.Contains(t, body, `<option value="sale_record" selected>sale_record</option>`)
	assert.Contains(t, body, `value="alice"`)
}

func TestStatistics(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, body := env.get(t, "/statistics")
	assert.Contains(t, body, "Sem dados disponíveis.")

	resp, _ := env.get(t, "/statistics/chart")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.svc.totals = []core.DayTotal{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("25")},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("6")},
	}
	_, body = env.get(t, "/statistics")
	assert.Contains(t, body, `src="/statistics/chart"`)

	resp, body = env.get(t, "/statistics/chart")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "01/01/2024")
}

func TestConnectionFailureRendersErrorPage(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.svc.listErr = errors.Join(core.ErrConnection, errors.New("dial tcp: connection refused"))

	resp, body := env.get(t, "/products")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "DB001")
	assert.NotContains(t, body, "dial tcp", "technical details stay in the log")
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t)

	var last *http.Response
	for range 6 {
		last = env.post(t, "/login", url.Values{"usuario": {"alice"}, "senha": {"wrong"}})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	assert.Equal(t, "60", last.Header.Get("Retry-After"))

	resp, _ := env.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "page views use the general limit")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrConnection, http.StatusServiceUnavailable},
		{core.ErrNotFound, http.StatusNotFound},
		{core.ErrNoRecords, http.StatusNotFound},
		{core.ErrDuplicateName, http.StatusConflict},
		{core.ErrProductInUse, http.StatusConflict},
		{core.ErrInvalidRange, http.StatusBadRequest},
		{errRateLimited, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespondError_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.svc.listErr = core.ErrConnection

	req, err := http.NewRequest(http.MethodGet, env.ts.URL+"/products", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.Contains(t, string(body), `"code":"DB001"`)
}
