package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/service"
)

// PaymentHandler handles /api/payments
type PaymentHandler struct {
	ledger  *service.LedgerService
	reports *service.ReportService
	logger  *slog.Logger
	now     func() time.Time
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(ledger *service.LedgerService, reports *service.ReportService, logger *slog.Logger) *PaymentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentHandler{ledger: ledger, reports: reports, logger: logger, now: time.Now}
}

// List handles GET /api/payments. Each payment carries its effective
// status as of asOf; stored status is never rewritten.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r, h.now)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	filter := domain.PaymentFilter{TenantID: r.URL.Query().Get("tenantId")}
	lines, err := h.reports.Payments(r.Context(), filter, asOf)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// Get handles GET /api/payments/{id}
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.GetPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Payment
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.CreatePayment(r.Context(), &p); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/payments/{id}
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p domain.Payment
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.UpdatePayment(r.Context(), r.PathValue("id"), &p); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/payments/{id}
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeletePayment(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
