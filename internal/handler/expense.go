package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/service"
)

// ExpenseHandler handles /api/expenses
type ExpenseHandler struct {
	ledger  *service.LedgerService
	reports *service.ReportService
	logger  *slog.Logger
	now     func() time.Time
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(ledger *service.LedgerService, reports *service.ReportService, logger *slog.Logger) *ExpenseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseHandler{ledger: ledger, reports: reports, logger: logger, now: time.Now}
}

// parseExpenseQuery reads propertyId, category, search, range, from and
// to. "all" is accepted for category and range.
func parseExpenseQuery(r *http.Request) (finance.ExpenseQuery, error) {
	v := r.URL.Query()
	q := finance.ExpenseQuery{
		PropertyID: strings.TrimSpace(v.Get("propertyId")),
		Search:     v.Get("search"),
	}
	if c := strings.TrimSpace(v.Get("category")); c != "" && c != "all" {
		q.Category = domain.ExpenseCategory(c)
		if !q.Category.Valid() {
			return q, &domain.ValidationError{Err: fmt.Errorf("category: %w", domain.ErrInvalidCategory)}
		}
	}
	rng, err := finance.ParseDateRange(v.Get("range"))
	if err != nil {
		return q, err
	}
	q.Range = rng
	if s := v.Get("from"); s != "" {
		if q.From, err = domain.ParseDate(s); err != nil {
			return q, err
		}
	}
	if s := v.Get("to"); s != "" {
		if q.To, err = domain.ParseDate(s); err != nil {
			return q, err
		}
	}
	return q, nil
}

// List handles GET /api/expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseExpenseQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	asOf, err := parseAsOf(r, h.now)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	lines, err := h.reports.Expenses(r.Context(), q, asOf)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// Stats handles GET /api/expenses/stats
func (h *ExpenseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q, err := parseExpenseQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	asOf, err := parseAsOf(r, h.now)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	stats, err := h.reports.ExpenseStats(r.Context(), q, asOf)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Categories handles GET /api/expenses/categories
func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.ExpenseCategories())
}

// Get handles GET /api/expenses/{id}
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.ledger.GetExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Create handles POST /api/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e domain.Expense
	if err := decodeJSON(w, r, &e); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.CreateExpense(r.Context(), &e); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// Update handles PUT /api/expenses/{id}
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var e domain.Expense
	if err := decodeJSON(w, r, &e); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.UpdateExpense(r.Context(), r.PathValue("id"), &e); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete handles DELETE /api/expenses/{id}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
