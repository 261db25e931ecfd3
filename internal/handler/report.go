package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/service"
)

// ReportHandler serves the derived ledger views under /api/reports
type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
	now     func() time.Time
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{reports: reports, logger: logger, now: time.Now}
}

// Summary handles GET /api/reports/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r, h.now)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	s, err := h.reports.Summary(r.Context(), asOf)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Dashboard handles GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r, h.now)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	d, err := h.reports.Dashboard(r.Context(), asOf)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Months handles GET /api/reports/months
func (h *ReportHandler) Months(w http.ResponseWriter, r *http.Request) {
	m, err := h.reports.Months(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// MonthDetail handles GET /api/reports/months/{month}. The month may be
// "2024-03" or an escaped "3%2F2024".
func (h *ReportHandler) MonthDetail(w http.ResponseWriter, r *http.Request) {
	month, err := finance.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	asOf, err := parseAsOf(r, h.now)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	d, err := h.reports.MonthDetail(r.Context(), month, strings.TrimSpace(r.URL.Query().Get("propertyId")), asOf)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Missing handles GET /api/reports/missing?month=. Without a month the
// current one is used.
func (h *ReportHandler) Missing(w http.ResponseWriter, r *http.Request) {
	month := finance.MonthKeyAt(h.now())
	if raw := r.URL.Query().Get("month"); raw != "" {
		var err error
		if month, err = finance.ParseMonthKey(raw); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	m, err := h.reports.Missing(r.Context(), month)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
