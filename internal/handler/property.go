package handler

import (
	"log/slog"
	"net/http"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/service"
)

// PropertyHandler handles /api/properties
type PropertyHandler struct {
	ledger *service.LedgerService
	logger *slog.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(ledger *service.LedgerService, logger *slog.Logger) *PropertyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyHandler{ledger: ledger, logger: logger}
}

// List handles GET /api/properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.ledger.ListProperties(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

// Get handles GET /api/properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.ledger.GetProperty(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Property
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.CreateProperty(r.Context(), &p); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/properties/{id}
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p domain.Property
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.UpdateProperty(r.Context(), r.PathValue("id"), &p); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/properties/{id}. A property that still has
// tenants or expenses is refused with 409.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteProperty(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
