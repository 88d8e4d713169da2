package verificationhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payguard/internal/domain/audit"
	"payguard/internal/domain/employee"
	"payguard/internal/domain/risk"
	"payguard/internal/domain/verification"
	"payguard/internal/platform/metrics"
	"payguard/internal/transport/http/api"
	"payguard/internal/transport/http/middleware"
	"payguard/internal/transport/http/shared"
)

type Handler struct {
	Service *verification.Service
	Metrics *metrics.Collector
}

func NewHandler(service *verification.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/employees/{employeeID}/changes", h.handleEvaluate)
	r.Route("/change-requests/{requestID}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Post("/verify-code", h.handleVerifyCode)
		r.With(middleware.RequireActor).Post("/decision", h.handleDecision)
		r.Get("/receipt", h.handleReceiptPDF)
		r.Post("/receipt/verify", h.handleReceiptVerify)
	})
}

type evaluatePayload struct {
	IP              string            `json:"ip"`
	DeviceID        string            `json:"deviceId"`
	Action          string            `json:"action"`
	ProposedRouting string            `json:"proposedRouting"`
	ProposedAccount string            `json:"proposedAccount"`
	ProposedAddress *employee.Address `json:"proposedAddress"`
	LastLoginAt     *time.Time        `json:"lastLoginAt"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload evaluatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid JSON body", requestID)
		return
	}

	validator := shared.NewValidator()
	validator.Required("ip", payload.IP, "source ip is required")
	validator.Required("action", payload.Action, "action is required")
	validator.Enum("action", payload.Action, []string{risk.ActionDepositChange, risk.ActionAddressChange}, "action must be deposit_change or address_change")
	if payload.Action == risk.ActionDepositChange {
		validator.Required("proposedRouting", payload.ProposedRouting, "proposed routing number is required for deposit changes")
		validator.Required("proposedAccount", payload.ProposedAccount, "proposed account number is required for deposit changes")
	}
	if payload.Action == risk.ActionAddressChange && payload.ProposedAddress == nil {
		validator.Add("proposedAddress", "proposed address is required for address changes")
	}
	if validator.Reject(w, requestID) {
		return
	}

	deviceID := payload.DeviceID
	if deviceID == "" {
		deviceID = employee.UnknownDevice
	}

	result, err := h.Service.Evaluate(r.Context(), chi.URLParam(r, "employeeID"), risk.Context{
		IP:              payload.IP,
		DeviceID:        deviceID,
		Action:          payload.Action,
		ProposedRouting: payload.ProposedRouting,
		ProposedAccount: payload.ProposedAccount,
		ProposedAddress: payload.ProposedAddress,
		LastLoginAt:     payload.LastLoginAt,
	})
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	case errors.Is(err, verification.ErrEmployeeFrozen):
		api.Fail(w, http.StatusConflict, "state_conflict", "employee account is frozen", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "evaluation_failed", "failed to adjudicate change attempt", requestID)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordDecision(result.Path)
	}
	api.Success(w, result, requestID)
}

type verifyCodePayload struct {
	Code string `json:"code"`
}

func (h *Handler) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload verifyCodePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid JSON body", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Required("code", payload.Code, "code is required")
	if validator.Reject(w, requestID) {
		return
	}

	result, err := h.Service.VerifyCode(r.Context(), chi.URLParam(r, "requestID"), payload.Code)
	switch {
	case errors.Is(err, verification.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "change request not found", requestID)
		return
	case errors.Is(err, verification.ErrCodeExpired):
		api.Fail(w, http.StatusGone, "code_expired", "one-time code has expired", requestID)
		return
	case errors.Is(err, verification.ErrStateConflict):
		api.Fail(w, http.StatusConflict, "state_conflict", "change request is not awaiting a code", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "verification_failed", "failed to verify code", requestID)
		return
	}
	api.Success(w, result, requestID)
}

type decisionPayload struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid JSON body", requestID)
		return
	}

	status, err := h.Service.Decide(r.Context(), chi.URLParam(r, "requestID"), actor.ID, payload.Approve, payload.Note)
	switch {
	case errors.Is(err, verification.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "change request not found", requestID)
		return
	case errors.Is(err, verification.ErrStateConflict):
		api.Fail(w, http.StatusConflict, "state_conflict", "change request is not awaiting review", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "decision_failed", "failed to record decision", requestID)
		return
	}
	api.Success(w, map[string]string{"status": status}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if errors.Is(err, verification.ErrRequestNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "change request not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_get_failed", "failed to load change request", requestID)
		return
	}

	receipt := audit.NewReceipt(req.ID, req.EmployeeID, req.Status, req.Score, req.CreatedAt)
	api.Success(w, map[string]any{"request": req, "receipt": receipt}, requestID)
}

func (h *Handler) handleReceiptVerify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var receipt audit.Receipt
	if err := json.NewDecoder(r.Body).Decode(&receipt); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid JSON body", requestID)
		return
	}
	api.Success(w, map[string]bool{"valid": audit.VerifyReceipt(receipt)}, requestID)
}
