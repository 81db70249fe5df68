package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nordcommerce/vipps-gateway/internal/models"
)

// VoidPayment releases an outstanding authorization with the processor
// and moves the payment to authorization_voided.
func (e *Engine) VoidPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	payment, release, err := e.loadForOperation(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	defer release()

	if payment.State != models.PaymentStateAuthorization {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidState,
			Message: fmt.Sprintf("cannot void payment in state %q", payment.State),
		}
	}

	text := fmt.Sprintf("Voided authorization of %s %s", payment.Amount, payment.Currency)
	if err := e.client.CancelPayment(ctx, payment.RemoteID, text); err != nil {
		return nil, &ServiceError{Code: ErrCodeDeclined, Message: "void rejected by processor", Err: err}
	}

	if err := e.transitionPayment(ctx, payment, models.PaymentStateAuthorizationVoided); err != nil {
		return nil, err
	}
	return payment, nil
}
