package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentledger_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	ledgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_ledger_writes_total",
		Help: "Count of record store writes by entity, operation and result",
	}, []string{"entity", "op", "result"})

	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentledger_report_duration_seconds",
		Help:    "Time to build a report from a snapshot",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	reportCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_report_cache_requests_total",
		Help: "Snapshot cache lookups by backend and result",
	}, []string{"backend", "result"})

	circuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rentledger_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
	}, []string{"name"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentledger_rate_limited_requests_total",
		Help: "Requests rejected by the rate limiter",
	})

	sweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_ledger_sweeps_total",
		Help: "Ledger sweep runs by result",
	}, []string{"result"})

	expectedRent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentledger_expected_monthly_rent",
		Help: "Sum of monthly rent over active tenants",
	})

	collectedRent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentledger_collected_this_month",
		Help: "Completed and partial payments in the current UTC month",
	})

	collectionRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentledger_collection_rate_percent",
		Help: "Collected over expected rent for the current month",
	})

	activeTenants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentledger_active_tenants",
		Help: "Number of tenants that are not archived",
	})

	latePayments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentledger_late_payments",
		Help: "Payments whose effective status is late",
	})

	missingTenants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentledger_missing_payment_tenants",
		Help: "Active tenants with no payment in the current month",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveWrite counts a create/update/delete against the record store.
func ObserveWrite(entity, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ledgerWrites.WithLabelValues(entity, op, result).Inc()
}

// ObserveReport records how long building a report took.
func ObserveReport(report string, duration time.Duration) {
	reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// ObserveCache counts a snapshot cache lookup.
func ObserveCache(backend, result string) {
	reportCacheRequests.WithLabelValues(backend, result).Inc()
}

// SetCircuitState publishes a breaker's state.
func SetCircuitState(name string, state int) {
	circuitState.WithLabelValues(name).Set(float64(state))
}

// IncRateLimited counts one rejected request.
func IncRateLimited() {
	rateLimited.Inc()
}

// ObserveSweep counts a ledger sweep run.
func ObserveSweep(err error) {
	if err != nil {
		sweeps.WithLabelValues("error").Inc()
		return
	}
	sweeps.WithLabelValues("ok").Inc()
}

// LedgerSnapshot is the set of gauges the sweep worker publishes.
type LedgerSnapshot struct {
	ExpectedRent   decimal.Decimal
	Collected      decimal.Decimal
	CollectionRate decimal.Decimal
	ActiveTenants  int
	LatePayments   int
	MissingTenants int
}

// SetLedger publishes the current ledger state.
func SetLedger(s LedgerSnapshot) {
	expectedRent.Set(s.ExpectedRent.InexactFloat64())
	collectedRent.Set(s.Collected.InexactFloat64())
	collectionRate.Set(s.CollectionRate.InexactFloat64())
	activeTenants.Set(float64(s.ActiveTenants))
	latePayments.Set(float64(s.LatePayments))
	missingTenants.Set(float64(s.MissingTenants))
}
