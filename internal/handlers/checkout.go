package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type checkoutResponse struct {
	PaymentID   string `json:"payment_id"`
	RemoteID    string `json:"remote_id"`
	RedirectURL string `json:"redirect_url"`
}

// Checkout handles POST /checkout/{orderID}: it registers a payment with
// the processor and returns the hosted-page URL the browser should be
// sent to.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["orderID"])
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "invalid order id"})
		return
	}

	initiated, err := h.initiator.InitiatePayment(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, checkoutResponse{
		PaymentID:   initiated.Payment.ID.String(),
		RemoteID:    initiated.Payment.RemoteID,
		RedirectURL: initiated.RedirectURL,
	})
}
