package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nordcommerce/vipps-gateway/internal/middleware"
)

// NewRouter wires all routes and middleware around a Handler.
func NewRouter(h *Handler, idempotencyRepo middleware.IdempotencyRepository, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Merchant-facing routes.
	r.HandleFunc("/checkout/{orderID}", h.Checkout).Methods(http.MethodPost)
	r.HandleFunc("/payments/{paymentID}/capture", h.Capture).Methods(http.MethodPost)
	r.HandleFunc("/payments/{paymentID}/void", h.Void).Methods(http.MethodPost)
	r.HandleFunc("/payments/{paymentID}/refund", h.Refund).Methods(http.MethodPost)

	// Processor-facing callback routes and the browser return route.
	r.HandleFunc("/payment/notify/{gateway}/{orderID}/{remoteID}", h.Notify).Methods(http.MethodPost)
	r.HandleFunc("/payment/return/{orderID}", h.Return).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/payment/shipping-details/{gateway}/{orderID}/{remoteID}", h.ShippingDetails).Methods(http.MethodPost)

	var final http.Handler = r
	final = middleware.Idempotency(idempotencyRepo, logger)(final)
	final = middleware.RequestLog(logger)(final)

	return final
}
