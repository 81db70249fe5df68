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

func TestInitiatePayment_Success(t *testing.T) {
	f := newTestEngine(t, EngineConfig{OrderIDPrefix: "web-"})
	order := testOrder()
	order.AuthToken = ""
	order.CurrentTransactionID = ""

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	var created *models.Payment
	f.payments.On("Create", mock.Anything, mock.AnythingOfType("*models.Payment")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Payment) }).
		Return(nil)
	f.orders.On("Update", mock.Anything, order).Return(nil)

	var sentOpts vipps.InitiateOptions
	f.client.On("InitiatePayment", mock.Anything, mock.AnythingOfType("string"), int64(1099),
		"Order 1042", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("vipps.InitiateOptions")).
		Run(func(args mock.Arguments) { sentOpts = args.Get(6).(vipps.InitiateOptions) }).
		Return(&vipps.InitiateResult{URL: "https://pay.example.test/landing"}, nil)

	initiated, err := f.engine.InitiatePayment(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.test/landing", initiated.RedirectURL)

	require.NotNil(t, created)
	assert.Equal(t, models.PaymentStateNew, created.State)
	assert.Equal(t, testGateway, created.Gateway)
	assert.True(t, created.Amount.Equal(order.Total))
	assert.True(t, len(created.RemoteID) > len("web-"))
	assert.Equal(t, "web-", created.RemoteID[:4])

	// A fresh token was minted and wired both to the order and the
	// processor call.
	assert.NotEmpty(t, order.AuthToken)
	assert.Equal(t, order.AuthToken, sentOpts.AuthToken)
	assert.Equal(t, created.RemoteID, order.CurrentTransactionID)
	assert.Equal(t, 0, order.PollCount)
}

func TestInitiatePayment_ReusesExistingToken(t *testing.T) {
	f := newTestEngine(t, EngineConfig{})
	order := testOrder()
	existing := order.AuthToken

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Update", mock.Anything, order).Return(nil)
	f.client.On("InitiatePayment", mock.Anything, mock.Anything, int64(1099),
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&vipps.InitiateResult{URL: "https://pay.example.test/landing"}, nil)

	_, err := f.engine.InitiatePayment(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, existing, order.AuthToken)
}

func TestInitiatePayment_OrderNotFound(t *testing.T) {
	f := newTestEngine(t, EngineConfig{})
	order := testOrder()

	f.orders.On("FindByID", mock.Anything, order.ID).Return(nil, models.ErrNotFound)

	_, err := f.engine.InitiatePayment(context.Background(), order.ID)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeAccessDenied, svcErr.Code)
}

func TestInitiatePayment_ProcessorRejects(t *testing.T) {
	f := newTestEngine(t, EngineConfig{})
	order := testOrder()

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Update", mock.Anything, order).Return(nil)
	f.client.On("InitiatePayment", mock.Anything, mock.Anything, int64(1099),
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &vipps.Error{Code: 99, Message: "invalid request"})

	_, err := f.engine.InitiatePayment(context.Background(), order.ID)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeDeclined, svcErr.Code)
}

func TestInitiatePayment_ExpressOptions(t *testing.T) {
	f := newTestEngine(t, EngineConfig{Express: true})
	order := testOrder()

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Update", mock.Anything, order).Return(nil)

	var sentOpts vipps.InitiateOptions
	f.client.On("InitiatePayment", mock.Anything, mock.Anything, int64(1099),
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sentOpts = args.Get(6).(vipps.InitiateOptions) }).
		Return(&vipps.InitiateResult{URL: "https://pay.example.test/landing"}, nil)

	_, err := f.engine.InitiatePayment(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "eComm Express Payment", sentOpts.PaymentType)
	assert.NotEmpty(t, sentOpts.ShippingDetailsPrefix)
}
