package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/featureflags"
	"github.com/waghrental/rentledger/internal/security/audit"
	"github.com/waghrental/rentledger/internal/security/ratelimit"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Request-ID", audit.RequestID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	h := RequestID(discard)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tenants", nil))
	id := rec.Header().Get(RequestIDHeader)
	require.Len(t, id, 16)
	assert.Equal(t, id, rec.Header().Get("X-Seen-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/payments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)
	defer limiter.Stop()
	h := RateLimit(limiter, discard)(okHandler())

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "192.0.2.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, do("/api/tenants"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/tenants"))
	assert.Equal(t, http.StatusOK, do("/healthz"), "probes are never limited")
}

func TestReadOnly(t *testing.T) {
	on := ReadOnly(featureflags.Static(map[string]bool{featureflags.ReadOnly: true}), audit.NewLogger(discard))(okHandler())
	off := ReadOnly(featureflags.Static(nil), audit.NewLogger(discard))(okHandler())

	rec := httptest.NewRecorder()
	on.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader("{}")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"ledger is in read-only mode"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	on.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	off.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/payments/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateJSONContentType(t *testing.T) {
	h := ValidateJSONContentType(discard)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/tenants", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/tenants/1/archive", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRejectSuspiciousPaths(t *testing.T) {
	h := RejectSuspiciousPaths(discard)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	req.URL.Path = "/api/../etc/passwd"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
