// Package events publishes reconciliation outcomes to downstream
// consumers. Billing-profile and shipment creation react to these events
// out of process; they are never part of the reconciliation transaction
// itself.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// StateChanged is emitted after a payment state transition has been
// persisted.
type StateChanged struct {
	OccurredAt time.Time           `json:"occurred_at"`
	RemoteID   string              `json:"remote_id"`
	From       models.PaymentState `json:"from_state"`
	To         models.PaymentState `json:"to_state"`
	PaymentID  uuid.UUID           `json:"payment_id"`
	OrderID    uuid.UUID           `json:"order_id"`
}

// ExpressReturned is emitted when an express checkout returns with user
// and shipping details collected by the processor.
type ExpressReturned struct {
	OccurredAt time.Time             `json:"occurred_at"`
	RemoteID   string                `json:"remote_id"`
	Details    *vipps.PaymentDetails `json:"details"`
	PaymentID  uuid.UUID             `json:"payment_id"`
	OrderID    uuid.UUID             `json:"order_id"`
}

// Publisher delivers events to downstream subscribers. Implementations
// must not block reconciliation on delivery guarantees; a failed publish
// is the publisher's problem to log, never the engine's to roll back.
type Publisher interface {
	PublishStateChanged(ctx context.Context, event StateChanged) error
	PublishExpressReturned(ctx context.Context, event ExpressReturned) error
}

// Noop discards all events. Used when no broker is configured and in
// tests.
type Noop struct{}

var _ Publisher = Noop{}

// PublishStateChanged implements Publisher.
func (Noop) PublishStateChanged(context.Context, StateChanged) error { return nil }

// PublishExpressReturned implements Publisher.
func (Noop) PublishExpressReturned(context.Context, ExpressReturned) error { return nil }
