package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payguard/internal/domain/payroll"
	"payguard/internal/transport/http/api"
	"payguard/internal/transport/http/middleware"
	"payguard/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll/cycles", func(r chi.Router) {
		r.With(middleware.RequireActor).Post("/", h.handleRunCycle)
		r.Get("/{cycleID}", h.handleGetCycle)
		r.Get("/{cycleID}/records", h.handleListRecords)
	})
}

type runCyclePayload struct {
	CycleID     string  `json:"cycleId"`
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   string  `json:"periodEnd"`
	Amount      float64 `json:"amount"`
}

func (h *Handler) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload runCyclePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid JSON body", requestID)
		return
	}

	validator := shared.NewValidator()
	validator.Required("cycleId", payload.CycleID, "cycle id is required")
	periodStart, _ := validator.Date("periodStart", payload.PeriodStart)
	periodEnd, _ := validator.Date("periodEnd", payload.PeriodEnd)
	validator.DateOrder("periodStart", periodStart, "periodEnd", periodEnd)
	if payload.Amount <= 0 {
		validator.Add("amount", "amount must be positive")
	}
	if validator.Reject(w, requestID) {
		return
	}

	summary, err := h.Service.RunCycle(r.Context(), payload.CycleID, periodStart, periodEnd, payload.Amount)
	if errors.Is(err, payroll.ErrInvalidPeriod) {
		api.Fail(w, http.StatusBadRequest, "validation_error", "period bounds are invalid", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_run_failed", "failed to run payroll cycle", requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	cycle, err := h.Service.GetCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if errors.Is(err, payroll.ErrCycleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll cycle not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_get_failed", "failed to load payroll cycle", requestID)
		return
	}
	api.Success(w, cycle, requestID)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	records, err := h.Service.ListRecords(r.Context(), chi.URLParam(r, "cycleID"))
	if errors.Is(err, payroll.ErrCycleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll cycle not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "records_list_failed", "failed to list pay records", requestID)
		return
	}
	api.Success(w, records, requestID)
}
