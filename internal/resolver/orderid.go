package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/nordcommerce/vipps-gateway/internal/models"
)

// PriorityDefault is the priority of built-in fallback resolvers. Custom
// resolvers register with a higher priority to take precedence.
const PriorityDefault = -100

// OrderIDChain resolves the remote order id for a new payment.
type OrderIDChain = Chain[*models.Payment, string]

// NewOrderIDChain creates an order-id chain with the default resolver
// registered as the final fallback.
func NewOrderIDChain() *OrderIDChain {
	c := &OrderIDChain{}
	c.RegisterFunc(PriorityDefault, defaultOrderID)
	return c
}

// defaultOrderID generates a unique remote order id.
func defaultOrderID(_ context.Context, _ *models.Payment) (string, bool, error) {
	return uuid.NewString(), true, nil
}
