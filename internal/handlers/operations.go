package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Capture handles POST /payments/{paymentID}/capture. The body may
// carry an amount; omitting it captures the full authorized amount.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	paymentID, amount, ok := h.parseOperation(w, r)
	if !ok {
		return
	}

	payment, err := h.capturer.CapturePayment(r.Context(), paymentID, amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// Void handles POST /payments/{paymentID}/void.
func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentID"])
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "invalid payment id"})
		return
	}

	payment, err := h.voider.VoidPayment(r.Context(), paymentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// Refund handles POST /payments/{paymentID}/refund. The body may carry
// an amount; omitting it refunds everything still refundable.
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	paymentID, amount, ok := h.parseOperation(w, r)
	if !ok {
		return
	}

	payment, err := h.refunder.RefundPayment(r.Context(), paymentID, amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// parseOperation extracts the payment id and the optional amount body of
// a capture or refund request.
func (h *Handler) parseOperation(w http.ResponseWriter, r *http.Request) (uuid.UUID, decimal.Decimal, bool) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentID"])
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "invalid payment id"})
		return uuid.Nil, decimal.Zero, false
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "malformed request body"})
		return uuid.Nil, decimal.Zero, false
	}

	return paymentID, req.Amount, true
}
