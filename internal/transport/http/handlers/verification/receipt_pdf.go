package verificationhandler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"payguard/internal/domain/verification"
	"payguard/internal/transport/http/api"
	"payguard/internal/transport/http/middleware"
)

func (h *Handler) handleReceiptPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	receipt, err := h.Service.Receipt(r.Context(), chi.URLParam(r, "requestID"))
	if errors.Is(err, verification.ErrRequestNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "change request not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "receipt_failed", "failed to build receipt", requestID)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Change Request Receipt")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Request: %s", receipt.ChangeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", receipt.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", receipt.Status))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Risk score: %d", receipt.RiskScore))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Created: %s", receipt.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(10)
	pdf.SetFont("Courier", "", 9)
	pdf.Cell(0, 8, fmt.Sprintf("Proof: %s", receipt.Hash))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", receipt.ChangeID))
	if err := pdf.Output(w); err != nil {
		api.Fail(w, http.StatusInternalServerError, "receipt_failed", "failed to render receipt", requestID)
	}
}
