package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nordcommerce/vipps-gateway/internal/service"
)

// ShippingDetails handles
// POST /payment/shipping-details/{gateway}/{orderID}/{remoteID}, the
// express-checkout callback asking which shipping methods are available
// for the address the customer picked in the wallet app.
func (h *Handler) ShippingDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	orderID, err := uuid.Parse(vars["orderID"])
	if err != nil {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: service.ErrCodeAccessDenied, Message: "invalid order id"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: service.ErrCodeInternalError, Message: "failed to read body"})
		return
	}

	response, err := h.reconciler.ShippingDetails(r.Context(),
		vars["gateway"], orderID, vars["remoteID"], r.Header.Get("Authorization"), body)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
}
