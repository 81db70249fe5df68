package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/service"
	"github.com/nordcommerce/vipps-gateway/internal/service/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type noopIdempotencyRepo struct{}

func (noopIdempotencyRepo) Get(context.Context, string, string) (*models.IdempotencyKey, error) {
	return nil, nil
}
func (noopIdempotencyRepo) Store(context.Context, *models.IdempotencyKey) error { return nil }

func newTestRouter(h *Handler) http.Handler {
	return NewRouter(h, noopIdempotencyRepo{}, testLogger())
}

func reconciledPayment(state models.PaymentState) *models.Payment {
	return &models.Payment{
		ID:       uuid.New(),
		OrderID:  uuid.New(),
		Gateway:  "vipps_no",
		State:    state,
		RemoteID: "web-1042",
		Currency: "NOK",
		Amount:   decimal.RequireFromString("10.99"),
	}
}

func TestNotify_TerminalStateReturns200(t *testing.T) {
	reconciler := mocks.NewMockReconciler(t)
	handler := NewHandler(reconciler, nil, nil, nil, nil, nil, testLogger())

	orderID := uuid.New()
	payment := reconciledPayment(models.PaymentStateCompleted)
	body := []byte(`{"orderId":"web-1042","transactionInfo":{"status":"SALE"}}`)

	reconciler.On("ReconcileFromNotification", mock.Anything, "vipps_no", orderID, "web-1042", "secret-token", body).
		Return(&service.ReconcileResult{Payment: payment, Outcome: service.OutcomeApplied}, nil)

	req := httptest.NewRequest(http.MethodPost,
		"/payment/notify/vipps_no/"+orderID.String()+"/web-1042", bytes.NewReader(body))
	req.Header.Set("Authorization", "secret-token")
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"completed"`)
}

func TestNotify_PendingReturns402(t *testing.T) {
	reconciler := mocks.NewMockReconciler(t)
	handler := NewHandler(reconciler, nil, nil, nil, nil, nil, testLogger())

	orderID := uuid.New()
	reconciler.On("ReconcileFromNotification", mock.Anything, mock.Anything, orderID, mock.Anything, mock.Anything, mock.Anything).
		Return(&service.ReconcileResult{Payment: reconciledPayment(models.PaymentStateNew), Outcome: service.OutcomePending}, nil)

	req := httptest.NewRequest(http.MethodPost,
		"/payment/notify/vipps_no/"+orderID.String()+"/web-1042",
		bytes.NewReader([]byte(`{"transactionInfo":{"status":"INITIATE"}}`)))
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestNotify_CorrelationFailureReturns403(t *testing.T) {
	reconciler := mocks.NewMockReconciler(t)
	handler := NewHandler(reconciler, nil, nil, nil, nil, nil, testLogger())

	orderID := uuid.New()
	reconciler.On("ReconcileFromNotification", mock.Anything, mock.Anything, orderID, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &service.ServiceError{Code: service.ErrCodeAccessDenied, Message: "correlation token mismatch"})

	req := httptest.NewRequest(http.MethodPost,
		"/payment/notify/vipps_no/"+orderID.String()+"/web-1042",
		bytes.NewReader([]byte(`{"transactionInfo":{"status":"SALE"}}`)))
	req.Header.Set("Authorization", "wrong")
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), service.ErrCodeAccessDenied)
}

func TestNotify_UnmappedStatusReturns418(t *testing.T) {
	reconciler := mocks.NewMockReconciler(t)
	handler := NewHandler(reconciler, nil, nil, nil, nil, nil, testLogger())

	orderID := uuid.New()
	reconciler.On("ReconcileFromNotification", mock.Anything, mock.Anything, orderID, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &service.ServiceError{Code: service.ErrCodeUnmappedStatus, Message: "unknown remote status"})

	req := httptest.NewRequest(http.MethodPost,
		"/payment/notify/vipps_no/"+orderID.String()+"/web-1042",
		bytes.NewReader([]byte(`{"transactionInfo":{"status":"BRAND_NEW"}}`)))
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestNotify_MalformedOrderIDReturns403(t *testing.T) {
	handler := NewHandler(mocks.NewMockReconciler(t), nil, nil, nil, nil, nil, testLogger())

	req := httptest.NewRequest(http.MethodPost,
		"/payment/notify/vipps_no/not-a-uuid/web-1042",
		bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
