package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/featureflags"
	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/handler"
	"github.com/waghrental/rentledger/internal/repository"
	"github.com/waghrental/rentledger/internal/repository/memory"
	"github.com/waghrental/rentledger/internal/service"
)

// testServer runs the full router over an in-memory store.
type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithFlags(t, nil)
}

func newTestServerWithFlags(t *testing.T, flags map[string]bool) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	cache := repository.NewMemoryReportCache()
	ledger := service.NewLedgerService(service.Repositories{
		Properties: store.Properties(),
		Tenants:    store.Tenants(),
		Payments:   store.Payments(),
		Expenses:   store.Expenses(),
	}, cache, nil, logger)
	reports := service.NewReportService(store, cache, time.Minute, finance.DefaultPolicy, logger)

	ts := &testServer{}
	h := New(Deps{
		Ledger:      ledger,
		Reports:     reports,
		Checks:      map[string]handler.Pinger{"cache": cache},
		Flags:       featureflags.Static(flags),
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      logger,
	})
	ts.Server = httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
