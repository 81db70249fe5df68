package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

func TestVoidPayment_Success(t *testing.T) {
	f := newTestEngine(t, EngineConfig{})
	payment := testPayment(testOrder(), models.PaymentStateAuthorization)

	f.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	f.client.On("CancelPayment", mock.Anything, payment.RemoteID, mock.Anything).Return(nil)
	f.payments.On("Update", mock.Anything, payment).Return(nil)

	voided, err := f.engine.VoidPayment(context.Background(), payment.ID)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStateAuthorizationVoided, voided.State)
}

func TestVoidPayment_InvalidState(t *testing.T) {
	f := newTestEngine(t, EngineConfig{})
	payment := testPayment(testOrder(), models.PaymentStateCompleted)

	f.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

	_, err := f.engine.VoidPayment(context.Background(), payment.ID)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeInvalidState, svcErr.Code)
}

func TestVoidPayment_ProcessorRejects(t *testing.T) {
	f := newTestEngine(t, EngineConfig{})
	payment := testPayment(testOrder(), models.PaymentStateAuthorization)

	f.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	f.client.On("CancelPayment", mock.Anything, payment.RemoteID, mock.Anything).
		Return(&vipps.Error{Code: 85, Message: "cannot cancel captured order"})

	_, err := f.engine.VoidPayment(context.Background(), payment.ID)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeDeclined, svcErr.Code)
	assert.Equal(t, models.PaymentStateAuthorization, payment.State)
}

func TestVoidPayment_NotFound(t *testing.T) {
	f := newTestEngine(t, EngineConfig{})
	payment := testPayment(testOrder(), models.PaymentStateAuthorization)

	f.payments.On("FindByID", mock.Anything, payment.ID).Return(nil, models.ErrNotFound)

	_, err := f.engine.VoidPayment(context.Background(), payment.ID)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeAccessDenied, svcErr.Code)
}
