// Package handlers implements the HTTP surface of the payment gateway:
// the processor-facing callback routes and the merchant-facing payment
// operations.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nordcommerce/vipps-gateway/internal/service"
)

// Handler holds the injected service dependencies for all endpoints.
type Handler struct {
	reconciler service.Reconciler
	initiator  service.Initiator
	capturer   service.Capturer
	voider     service.Voider
	refunder   service.Refunder
	health     service.HealthChecker
	logger     *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	reconciler service.Reconciler,
	initiator service.Initiator,
	capturer service.Capturer,
	voider service.Voider,
	refunder service.Refunder,
	health service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		reconciler: reconciler,
		initiator:  initiator,
		capturer:   capturer,
		voider:     voider,
		refunder:   refunder,
		health:     health,
		logger:     logger,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeServiceError maps a service error code to its HTTP status.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: service.ErrCodeInternalError, Message: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Code {
	case service.ErrCodeAccessDenied:
		status = http.StatusForbidden
	case service.ErrCodeUnmappedStatus:
		status = http.StatusTeapot
	case service.ErrCodeStatusTimeout:
		status = http.StatusGatewayTimeout
	case service.ErrCodeInvalidState:
		status = http.StatusConflict
	case service.ErrCodeInvalidAmount, service.ErrCodeRefundExceedsBalance, service.ErrCodeNoTransaction:
		status = http.StatusBadRequest
	case service.ErrCodeDeclined:
		status = http.StatusPaymentRequired
	case service.ErrCodeLockTimeout:
		status = http.StatusLocked
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "code", svcErr.Code, "error", svcErr)
	} else {
		h.logger.Info("request rejected", "code", svcErr.Code, "message", svcErr.Message)
	}
	h.writeJSON(w, status, errorResponse{Error: svcErr.Code, Message: svcErr.Message})
}
