package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nordcommerce/vipps-gateway/internal/models"
)

// RefundPayment refunds part or all of a captured payment. A zero amount
// refunds everything still refundable. The refunded total may never
// exceed the captured total; the payment moves to partially_refunded
// until the two are equal, then to refunded.
func (e *Engine) RefundPayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal) (*models.Payment, error) {
	payment, release, err := e.loadForOperation(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	defer release()

	if payment.State != models.PaymentStateCompleted && payment.State != models.PaymentStatePartiallyRefunded {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidState,
			Message: fmt.Sprintf("cannot refund payment in state %q", payment.State),
		}
	}

	outstanding := payment.OutstandingRefundable()
	if amount.IsZero() {
		amount = outstanding
	}
	if amount.Sign() <= 0 {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: "refund amount must be positive"}
	}
	if amount.GreaterThan(outstanding) {
		return nil, &ServiceError{
			Code:    ErrCodeRefundExceedsBalance,
			Message: fmt.Sprintf("refund of %s exceeds refundable balance %s", amount, outstanding),
		}
	}

	text := fmt.Sprintf("Refunded %s %s", amount, payment.Currency)
	if err := e.client.RefundPayment(ctx, payment.RemoteID, text, ToMinor(amount)); err != nil {
		return nil, &ServiceError{Code: ErrCodeDeclined, Message: "refund rejected by processor", Err: err}
	}

	payment.RefundedAmount = payment.RefundedAmount.Add(amount)
	next := models.PaymentStatePartiallyRefunded
	if payment.RefundedAmount.GreaterThanOrEqual(payment.CapturedAmount) {
		next = models.PaymentStateRefunded
	}
	if err := e.transitionPayment(ctx, payment, next); err != nil {
		return nil, err
	}
	return payment, nil
}
