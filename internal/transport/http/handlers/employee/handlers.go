package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payguard/internal/domain/employee"
	"payguard/internal/transport/http/api"
	"payguard/internal/transport/http/middleware"
	"payguard/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequireActor).Post("/{employeeID}/freeze", h.handleFreeze)
	})
}

type createPayload struct {
	FirstName     string           `json:"firstName"`
	LastName      string           `json:"lastName"`
	Email         string           `json:"email"`
	RoutingNumber string           `json:"routingNumber"`
	AccountNumber string           `json:"accountNumber"`
	Address       employee.Address `json:"address"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid JSON body", requestID)
		return
	}

	validator := shared.NewValidator()
	validator.Required("email", payload.Email, "email is required")
	validator.Required("routingNumber", payload.RoutingNumber, "onboarding routing number is required")
	validator.Required("accountNumber", payload.AccountNumber, "onboarding account number is required")
	if validator.Reject(w, requestID) {
		return
	}

	emp, err := h.Service.Create(r.Context(), payload.FirstName, payload.LastName, payload.Email,
		payload.RoutingNumber, payload.AccountNumber, payload.Address)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}
	api.Created(w, emp, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

type freezePayload struct {
	Frozen bool   `json:"frozen"`
	Reason string `json:"reason"`
}

func (h *Handler) handleFreeze(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload freezePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid JSON body", requestID)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	var err error
	if payload.Frozen {
		err = h.Service.Freeze(r.Context(), employeeID, payload.Reason)
	} else {
		err = h.Service.Unfreeze(r.Context(), employeeID)
	}
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_freeze_failed", "failed to update freeze state", requestID)
		return
	}
	api.Success(w, map[string]bool{"frozen": payload.Frozen}, requestID)
}
