package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// Reconciler converges the racing notification channels onto one
// payment state.
type Reconciler interface {
	ReconcileFromNotification(ctx context.Context, gatewayID string, orderID uuid.UUID, remoteID, authHeader string, body []byte) (*ReconcileResult, error)
	ReconcileFromReturn(ctx context.Context, orderID uuid.UUID) (*ReconcileResult, error)
	ShippingDetails(ctx context.Context, gatewayID string, orderID uuid.UUID, remoteID, authHeader string, body []byte) (*vipps.FetchShippingCostResponse, error)
}

// Initiator starts new payments against the remote processor.
type Initiator interface {
	InitiatePayment(ctx context.Context, orderID uuid.UUID) (*InitiatedPayment, error)
}

// Capturer captures authorized payments.
type Capturer interface {
	CapturePayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal) (*models.Payment, error)
}

// Voider releases outstanding authorizations.
type Voider interface {
	VoidPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)
}

// Refunder refunds captured payments.
type Refunder interface {
	RefundPayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal) (*models.Payment, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

var (
	_ Reconciler = (*Engine)(nil)
	_ Initiator  = (*Engine)(nil)
	_ Capturer   = (*Engine)(nil)
	_ Voider     = (*Engine)(nil)
	_ Refunder   = (*Engine)(nil)
)
