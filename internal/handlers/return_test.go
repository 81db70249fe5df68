package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/service"
	"github.com/nordcommerce/vipps-gateway/internal/service/mocks"
)

func TestReturn_PendingSetsRefreshHeader(t *testing.T) {
	reconciler := mocks.NewMockReconciler(t)
	handler := NewHandler(reconciler, nil, nil, nil, nil, nil, testLogger())

	orderID := uuid.New()
	reconciler.On("ReconcileFromReturn", mock.Anything, orderID).
		Return(&service.ReconcileResult{
			Payment:    reconciledPayment(models.PaymentStateNew),
			Outcome:    service.OutcomePending,
			RetryAfter: 10 * time.Second,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/payment/return/"+orderID.String(), nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10; url=/payment/return/"+orderID.String(), rec.Header().Get("Refresh"))
	assert.Contains(t, rec.Body.String(), "pending")
}

func TestReturn_TerminalOutcome(t *testing.T) {
	reconciler := mocks.NewMockReconciler(t)
	handler := NewHandler(reconciler, nil, nil, nil, nil, nil, testLogger())

	orderID := uuid.New()
	reconciler.On("ReconcileFromReturn", mock.Anything, orderID).
		Return(&service.ReconcileResult{
			Payment: reconciledPayment(models.PaymentStateAuthorization),
			Outcome: service.OutcomeApplied,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/payment/return/"+orderID.String(), nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Refresh"))
	assert.Contains(t, rec.Body.String(), `"state":"authorization"`)
}

func TestReturn_PollBudgetExhaustedReturns504(t *testing.T) {
	reconciler := mocks.NewMockReconciler(t)
	handler := NewHandler(reconciler, nil, nil, nil, nil, nil, testLogger())

	orderID := uuid.New()
	reconciler.On("ReconcileFromReturn", mock.Anything, orderID).
		Return(nil, &service.ServiceError{Code: service.ErrCodeStatusTimeout, Message: "remote processor did not reach a final status in time"})

	req := httptest.NewRequest(http.MethodGet, "/payment/return/"+orderID.String(), nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}
