package handler

import (
	"log/slog"
	"net/http"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/service"
)

// TenantHandler handles /api/tenants
type TenantHandler struct {
	ledger *service.LedgerService
	logger *slog.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(ledger *service.LedgerService, logger *slog.Logger) *TenantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantHandler{ledger: ledger, logger: logger}
}

// List handles GET /api/tenants. Archived tenants are only included with
// includeArchived=true.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.TenantFilter{
		IncludeArchived: queryBool(r, "includeArchived"),
		PropertyID:      r.URL.Query().Get("propertyId"),
	}
	tenants, err := h.ledger.ListTenants(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tenants)
}

// Get handles GET /api/tenants/{id}
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.ledger.GetTenant(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Create handles POST /api/tenants
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t domain.Tenant
	if err := decodeJSON(w, r, &t); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.CreateTenant(r.Context(), &t); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Update handles PUT /api/tenants/{id}
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var t domain.Tenant
	if err := decodeJSON(w, r, &t); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.UpdateTenant(r.Context(), r.PathValue("id"), &t); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Archive handles PUT /api/tenants/{id}/archive
func (h *TenantHandler) Archive(w http.ResponseWriter, r *http.Request) {
	t, err := h.ledger.ArchiveTenant(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Unarchive handles PUT /api/tenants/{id}/unarchive
func (h *TenantHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	t, err := h.ledger.UnarchiveTenant(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /api/tenants/{id}
func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteTenant(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
