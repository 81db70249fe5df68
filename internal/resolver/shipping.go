package resolver

import (
	"context"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// ShippingQuery is the subject of shipping-method resolution: the order
// being paid and the address the customer picked during express checkout.
type ShippingQuery struct {
	Order   *models.Order
	Request *vipps.FetchShippingCostRequest
}

// ShippingMethodsChain resolves the shipping methods offered to the
// customer for an express payment.
type ShippingMethodsChain = Chain[ShippingQuery, []vipps.ShippingMethod]

// NewShippingMethodsChain creates a shipping-methods chain whose final
// fallback offers no methods at all.
func NewShippingMethodsChain() *ShippingMethodsChain {
	c := &ShippingMethodsChain{}
	c.RegisterFunc(PriorityDefault, defaultShippingMethods)
	return c
}

func defaultShippingMethods(_ context.Context, _ ShippingQuery) ([]vipps.ShippingMethod, bool, error) {
	return []vipps.ShippingMethod{}, true, nil
}
