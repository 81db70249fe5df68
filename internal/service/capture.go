package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// CapturePayment captures an authorized payment, fully or partially. A
// zero amount means the full authorized amount. A partial capture splits
// the payment: a completed child payment carries the captured amount and
// the parent keeps the authorized remainder, voided when it reaches zero.
//
// When the processor declines with insufficient funds, the remote ledger
// is consulted: if another channel already captured, that ledger entry's
// amount and timestamp are adopted instead of failing the operation.
func (e *Engine) CapturePayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal) (*models.Payment, error) {
	payment, release, err := e.loadForOperation(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	defer release()

	if payment.State != models.PaymentStateAuthorization {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidState,
			Message: fmt.Sprintf("cannot capture payment in state %q", payment.State),
		}
	}

	if amount.IsZero() {
		amount = payment.Amount
	}
	if amount.Sign() <= 0 || amount.GreaterThan(payment.Amount) {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: "capture amount must be positive and within the authorized amount"}
	}

	completedAt := time.Now()

	text := fmt.Sprintf("Captured %s %s", amount, payment.Currency)
	if err := e.client.CapturePayment(ctx, payment.RemoteID, text, ToMinor(amount)); err != nil {
		if !vipps.IsInsufficientFunds(err) {
			return nil, &ServiceError{Code: ErrCodeDeclined, Message: "capture rejected by processor", Err: err}
		}

		adopted, adoptedAt, ledgerErr := e.adoptLedgerCapture(ctx, payment.RemoteID)
		if ledgerErr != nil {
			return nil, ledgerErr
		}
		e.logger.Warn("capture declined with insufficient funds, adopting remote ledger capture",
			"payment_id", payment.ID, "requested_amount", amount, "ledger_amount", adopted)
		amount = adopted
		completedAt = adoptedAt
	}

	return e.settleCapture(ctx, payment, amount, completedAt)
}

// adoptLedgerCapture finds the capture the remote side already performed
// for a transaction declined locally with insufficient funds.
func (e *Engine) adoptLedgerCapture(ctx context.Context, remoteID string) (decimal.Decimal, time.Time, error) {
	details, err := e.client.GetPaymentDetails(ctx, remoteID)
	if err != nil {
		return decimal.Zero, time.Time{}, &ServiceError{Code: ErrCodeInternalError, Message: "failed to fetch remote ledger", Err: err}
	}
	entry, ok := LastSuccessfulCapture(details.TransactionLogHistory)
	if !ok {
		return decimal.Zero, time.Time{}, &ServiceError{Code: ErrCodeDeclined, Message: "capture declined and no prior remote capture found"}
	}
	return FromMinor(entry.Amount), entry.TimeStamp, nil
}

func (e *Engine) settleCapture(ctx context.Context, payment *models.Payment, amount decimal.Decimal, completedAt time.Time) (*models.Payment, error) {
	if amount.GreaterThanOrEqual(payment.Amount) {
		payment.Amount = amount
		payment.CapturedAmount = amount
		payment.CompletedAt = &completedAt
		if err := e.transitionPayment(ctx, payment, models.PaymentStateCompleted); err != nil {
			return nil, err
		}
		return payment, nil
	}

	child := &models.Payment{
		ID:             uuid.New(),
		OrderID:        payment.OrderID,
		Gateway:        payment.Gateway,
		State:          models.PaymentStateCompleted,
		RemoteState:    payment.RemoteState,
		RemoteID:       payment.RemoteID,
		Currency:       payment.Currency,
		Amount:         amount,
		CapturedAmount: amount,
		CompletedAt:    &completedAt,
	}
	if err := e.payments.Create(ctx, child); err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to record partial capture", Err: err}
	}
	e.logger.Info("partial capture split payment",
		"parent_payment_id", payment.ID, "child_payment_id", child.ID, "captured_amount", amount)
	e.publishStateChanged(ctx, child, models.PaymentStateNew, models.PaymentStateCompleted)

	payment.Amount = payment.Amount.Sub(amount)
	if payment.Amount.Sign() == 0 {
		if err := e.transitionPayment(ctx, payment, models.PaymentStateAuthorizationVoided); err != nil {
			return nil, err
		}
	} else if err := e.payments.Update(ctx, payment); err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to reduce authorized remainder", Err: err}
	}

	return child, nil
}
