package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nordcommerce/vipps-gateway/internal/service"
)

type returnResponse struct {
	Status  string          `json:"status"`
	Payment paymentResponse `json:"payment"`
}

// Return handles GET|POST /payment/return/{orderID}, the browser coming
// back from the hosted payment page.
//
// While the processor still reports INITIATE the response carries a
// Refresh header pointing back at this route, so the browser retries
// after the configured delay instead of the server blocking the request.
func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["orderID"])
	if err != nil {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: service.ErrCodeAccessDenied, Message: "invalid order id"})
		return
	}

	result, err := h.reconciler.ReconcileFromReturn(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if result.Outcome == service.OutcomePending {
		w.Header().Set("Refresh", fmt.Sprintf("%d; url=%s", int(result.RetryAfter.Seconds()), r.URL.RequestURI()))
		h.writeJSON(w, http.StatusOK, errorResponse{
			Error:   "pending",
			Message: "payment is being confirmed, this page will refresh",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, returnResponse{
		Status:  string(result.Outcome),
		Payment: toPaymentResponse(result.Payment),
	})
}
