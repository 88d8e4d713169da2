package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"payguard/internal/domain/audit"
	"payguard/internal/transport/http/api"
	"payguard/internal/transport/http/middleware"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/{employeeID}/audit", h.handleList)
	r.Get("/employees/{employeeID}/audit/verify", h.handleVerify)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	events, err := h.Service.List(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	api.Success(w, events, requestID)
}

// handleVerify reports the chain walk verbatim; a broken chain is data
// for forensic review, not an error to repair.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	report, err := h.Service.Verify(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_verify_failed", "failed to verify audit chain", requestID)
		return
	}
	api.Success(w, report, requestID)
}
