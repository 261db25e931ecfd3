package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddlewareUsesPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tenants/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /api/tenants/{id}", "418"))
	rec := httptest.NewRecorder()
	HTTPMetricsMiddleware(mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tenants/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /api/tenants/{id}", "418"))
	assert.Equal(t, before+1, after)
}

func TestSetLedger(t *testing.T) {
	SetLedger(LedgerSnapshot{
		ExpectedRent:   decimal.RequireFromString("2400"),
		Collected:      decimal.RequireFromString("1200.50"),
		CollectionRate: decimal.RequireFromString("50.02"),
		ActiveTenants:  2,
		LatePayments:   1,
		MissingTenants: 1,
	})
	assert.Equal(t, 2400.0, testutil.ToFloat64(expectedRent))
	assert.Equal(t, 1200.5, testutil.ToFloat64(collectedRent))
	assert.Equal(t, 2.0, testutil.ToFloat64(activeTenants))
	assert.Equal(t, 1.0, testutil.ToFloat64(missingTenants))
}
