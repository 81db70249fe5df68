package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nordcommerce/vipps-gateway/internal/service"
)

// maxCallbackBody bounds the processor callback payload size.
const maxCallbackBody = 1 << 20

// Notify handles POST /payment/notify/{gateway}/{orderID}/{remoteID},
// the processor's server-to-server callback.
//
// Responses: 200 once the payment is reconciled (including duplicate
// deliveries), 402 while the processor reports INITIATE so it retries,
// 403 on any correlation failure, 418 on a status outside the known
// vocabulary.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.reconciler.ReconcileFromNotification(r.Context(),
		vars["gateway"], orderID, vars["remoteID"], r.Header.Get("Authorization"), body)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if result.Outcome == service.OutcomePending {
		h.writeJSON(w, http.StatusPaymentRequired, errorResponse{
			Error:   "pending",
			Message: "transaction has not reached a final status yet",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, toPaymentResponse(result.Payment))
}
