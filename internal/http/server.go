package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"commissions/internal/core"
	applog "commissions/internal/log"
	"commissions/internal/metrics"
	"commissions/internal/middleware/ratelimit"
	"commissions/internal/middleware/security"
	"commissions/internal/services"
)

// SalesAPI is the bookkeeping surface the handlers call.
type SalesAPI interface {
	CreateRepresentative(ctx context.Context, in core.CreateRepresentativeInput) (core.Representative, error)
	ListRepresentatives(ctx context.Context) ([]core.Representative, error)
	GetRepresentative(ctx context.Context, id int64) (core.Representative, error)
	CreateCustomer(ctx context.Context, in core.CreateCustomerInput) (core.Customer, error)
	ListCustomers(ctx context.Context) ([]core.Customer, error)
	GetCustomer(ctx context.Context, id int64) (core.Customer, error)
	ListSales(ctx context.Context, rng core.DateRange) ([]core.SaleView, error)
	GetSale(ctx context.Context, id int64) (core.SaleView, error)
	CreateSale(ctx context.Context, in core.CreateSaleInput) (core.SaleView, error)
	UpdateSale(ctx context.Context, id int64, in core.UpdateSaleInput) (core.SaleView, error)
	DeleteSale(ctx context.Context, id int64) (bool, error)
}

// ReportsAPI serves the aggregated views and the CSV export.
type ReportsAPI interface {
	Dashboard(ctx context.Context) (services.Dashboard, error)
	MonthReport(ctx context.Context, selector string) (services.MonthReport, error)
	Export(ctx context.Context) (services.Export, error)
}

// Deps are the collaborators of the API server. Sales and Reports are
// required; everything else has a default.
type Deps struct {
	Sales   SalesAPI
	Reports ReportsAPI
	// Ready reports whether the server can take traffic, typically a DB ping.
	Ready   func(ctx context.Context) error
	Metrics *metrics.Metrics
	Logger  *applog.Logger

	CORSAllowedOrigins []string
	RateLimit          ratelimit.Config
}

// Server wraps http.Server with the middleware state that needs stopping.
type Server struct {
	http.Server

	sales   SalesAPI
	reports ReportsAPI
	ready   func(ctx context.Context) error
	metrics *metrics.Metrics
	logger  *applog.Logger
	events  *applog.StructuredLogger

	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	ready := deps.Ready
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}

	s := &Server{
		sales:    deps.Sales,
		reports:  deps.Reports,
		ready:    ready,
		metrics:  m,
		logger:   logger,
		events:   applog.NewStructuredLogger(logger),
		limiter:  ratelimit.NewLimiter(deps.RateLimit),
		detector: security.NewDetector(),
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(deps.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
