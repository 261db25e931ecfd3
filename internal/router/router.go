// Package router assembles the HTTP API: routes on a ServeMux wrapped in
// the middleware chain.
package router

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/waghrental/rentledger/internal/featureflags"
	"github.com/waghrental/rentledger/internal/handler"
	"github.com/waghrental/rentledger/internal/observability/metrics"
	"github.com/waghrental/rentledger/internal/security/audit"
	"github.com/waghrental/rentledger/internal/security/middleware"
	"github.com/waghrental/rentledger/internal/security/ratelimit"
	"github.com/waghrental/rentledger/internal/service"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Ledger      *service.LedgerService
	Reports     *service.ReportService
	Checks      map[string]handler.Pinger
	Limiter     *ratelimit.Limiter
	Flags       featureflags.Checker
	Audit       *audit.Logger
	CORSOrigins []string
	Logger      *slog.Logger
}

// New builds the root handler.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Flags == nil {
		d.Flags = featureflags.Enabled
	}
	if d.Audit == nil {
		d.Audit = audit.NewLogger(d.Logger)
	}

	props := handler.NewPropertyHandler(d.Ledger, d.Logger)
	tenants := handler.NewTenantHandler(d.Ledger, d.Logger)
	payments := handler.NewPaymentHandler(d.Ledger, d.Reports, d.Logger)
	expenses := handler.NewExpenseHandler(d.Ledger, d.Reports, d.Logger)
	reports := handler.NewReportHandler(d.Reports, d.Logger)
	health := handler.NewHealthHandler(d.Checks, d.Logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/properties", props.List)
	mux.HandleFunc("POST /api/properties", props.Create)
	mux.HandleFunc("GET /api/properties/{id}", props.Get)
	mux.HandleFunc("PUT /api/properties/{id}", props.Update)
	mux.HandleFunc("DELETE /api/properties/{id}", props.Delete)

	mux.HandleFunc("GET /api/tenants", tenants.List)
	mux.HandleFunc("POST /api/tenants", tenants.Create)
	mux.HandleFunc("GET /api/tenants/{id}", tenants.Get)
	mux.HandleFunc("PUT /api/tenants/{id}", tenants.Update)
	mux.HandleFunc("DELETE /api/tenants/{id}", tenants.Delete)
	mux.HandleFunc("PUT /api/tenants/{id}/archive", tenants.Archive)
	mux.HandleFunc("PUT /api/tenants/{id}/unarchive", tenants.Unarchive)

	mux.HandleFunc("GET /api/payments", payments.List)
	mux.HandleFunc("POST /api/payments", payments.Create)
	mux.HandleFunc("GET /api/payments/{id}", payments.Get)
	mux.HandleFunc("PUT /api/payments/{id}", payments.Update)
	mux.HandleFunc("DELETE /api/payments/{id}", payments.Delete)

	mux.HandleFunc("GET /api/expenses", expenses.List)
	mux.HandleFunc("POST /api/expenses", expenses.Create)
	mux.HandleFunc("GET /api/expenses/categories", expenses.Categories)
	mux.HandleFunc("GET /api/expenses/stats", expenses.Stats)
	mux.HandleFunc("GET /api/expenses/{id}", expenses.Get)
	mux.HandleFunc("PUT /api/expenses/{id}", expenses.Update)
	mux.HandleFunc("DELETE /api/expenses/{id}", expenses.Delete)

	mux.HandleFunc("GET /api/reports/summary", reports.Summary)
	mux.HandleFunc("GET /api/reports/dashboard", reports.Dashboard)
	mux.HandleFunc("GET /api/reports/months", reports.Months)
	mux.HandleFunc("GET /api/reports/months/{month}", reports.MonthDetail)
	mux.HandleFunc("GET /api/reports/missing", reports.Missing)

	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /readyz", health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Metrics sit directly on the mux so r.Pattern is visible to them.
	var h http.Handler = metrics.HTTPMetricsMiddleware(mux)
	h = middleware.ReadOnly(d.Flags, d.Audit)(h)
	h = middleware.ValidateJSONContentType(d.Logger)(h)
	if d.Limiter != nil {
		h = middleware.RateLimit(d.Limiter, d.Logger)(h)
	}
	h = middleware.CORS(d.CORSOrigins)(h)
	h = middleware.RejectSuspiciousPaths(d.Logger)(h)
	h = middleware.RequestID(d.Logger)(h)
	return otelhttp.NewHandler(h, "rentledger.http",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/readyz" && r.URL.Path != "/metrics"
		}),
	)
}
