// Package web provides the HTTP server and handlers for the sales manager UI.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/vendas/internal/config"
	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/session"
	appmw "github.com/JonMunkholm/vendas/internal/web/middleware"
	"github.com/JonMunkholm/vendas/internal/web/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

//go:embed static
var staticFiles embed.FS

// chartAssetsHost serves the echarts script referenced by the chart page.
const chartAssetsHost = "https://go-echarts.github.io"

// Service is the business layer used by the handlers. *core.Service
// satisfies it.
type Service interface {
	Ping(ctx context.Context) error
	Today() time.Time

	Login(ctx context.Context, sess *session.Session, username, password string) error
	Logout(ctx context.Context, sess *session.Session)

	ListProducts(ctx context.Context) ([]core.Product, error)
	GetProduct(ctx context.Context, id int32) (core.Product, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal) (core.Product, error)
	UpdateProduct(ctx context.Context, id int32, name string, price decimal.Decimal) error
	DeleteProduct(ctx context.Context, id int32) error

	RecordSale(ctx context.Context, productID int32, quantity int, date time.Time) (core.Sale, error)
	RecentSales(ctx context.Context, limit int) ([]core.RecentSale, error)

	DailySummary(ctx context.Context, date time.Time) (core.Summary, error)
	QueryReport(ctx context.Context, f core.ReportFilter) ([]core.ReportRow, error)
	TotalsByDay(ctx context.Context) ([]core.DayTotal, error)

	QueryAudit(ctx context.Context, f core.AuditFilter) ([]core.AuditEntry, error)
}

var _ Service = (*core.Service)(nil)

// Server is the HTTP server for the sales manager.
type Server struct {
	service  Service
	sessions *appmw.Sessions
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server

	// stop ends the rate limiter sweepers.
	stop context.CancelFunc
}

// NewServer creates a new Server instance.
func NewServer(service Service, store session.Store, cfg *config.Config) *Server {
	ctx, stop := context.WithCancel(context.Background())

	s := &Server{
		service:  service,
		sessions: appmw.NewSessions(store, cfg.Session),
		cfg:      cfg,
		router:   chi.NewRouter(),
		stop:     stop,
	}
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	templates.Configure(templates.Format{
		CurrencySymbol: cfg.Display.CurrencySymbol,
		DateLayout:     cfg.Display.DateLayout,
	})

	s.setupMiddleware(ctx)
	s.setupRoutes(ctx)
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware(ctx context.Context) {
	s.router.Use(middleware.RequestID)
	s.router.Use(appmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(s.sessions.Load)
	s.router.Use(appmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestMetadata)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled && s.cfg.Rate.RequestsPerMinute > 0 {
		limiter := appmw.NewRateLimiter(ctx, s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.Middleware(http.HandlerFunc(s.handleRateLimited)))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(ctx context.Context) {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/healthz", s.handleHealth)

	login := s.router.With()
	if s.cfg.Rate.Enabled && s.cfg.Rate.LoginLimit > 0 {
		limiter := appmw.NewRateLimiter(ctx, s.cfg.Rate.LoginLimit, time.Minute)
		login = s.router.With(limiter.Middleware(http.HandlerFunc(s.handleRateLimited)))
	}
	s.router.Get("/login", s.handleLoginPage)
	login.Post("/login", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(appmw.RequireLogin)

		r.Post("/logout", s.handleLogout)
		r.Get("/", s.handleHome)

		// Catalog
		r.Get("/products", s.handleProducts)
		r.Post("/products", s.handleCreateProduct)
		r.Post("/products/{id}", s.handleUpdateProduct)
		r.Post("/products/{id}/delete", s.handleDeleteProduct)

		// Sales
		r.Get("/sales", s.handleSales)
		r.Post("/sales", s.handleRecordSale)

		// Reports
		r.Get("/reports", s.handleReports)
		r.Get("/reports/export.xlsx", s.handleExportXLSX)
		r.Get("/reports/export.csv", s.handleExportCSV)

		// Statistics
		r.Get("/statistics", s.handleStatistics)
		r.Get("/statistics/chart", s.handleStatisticsChart)

		// Audit
		r.Get("/audit", s.handleAuditLog)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
// Framing is allowed from the same origin because the statistics page
// embeds the chart in an iframe.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	csp := "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' " + chartAssetsHost + "; " +
		"style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'; " +
		"frame-ancestors 'self'; form-action 'self'"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "SAMEORIGIN")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				w.Header().Set("Content-Security-Policy", csp)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
