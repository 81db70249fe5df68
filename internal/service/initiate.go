package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// InitiatedPayment is the result of starting a hosted-page payment.
type InitiatedPayment struct {
	Payment     *models.Payment
	RedirectURL string
}

// InitiatePayment creates a pending payment for an order and registers
// it with the remote processor. The returned redirect URL points at the
// hosted payment page; the browser comes back through the return route
// while the processor calls the notify route, and the reconciliation
// engine converges whichever arrives first.
func (e *Engine) InitiatePayment(ctx context.Context, orderID uuid.UUID) (*InitiatedPayment, error) {
	order, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "order not found"}
		}
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to load order", Err: err}
	}
	if order.Total.Sign() <= 0 {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: "order total must be positive"}
	}

	payment := &models.Payment{
		ID:       uuid.New(),
		OrderID:  order.ID,
		Gateway:  e.cfg.GatewayID,
		State:    models.PaymentStateNew,
		Currency: order.Currency,
		Amount:   order.Total,
	}

	remoteID, ok, err := e.orderIDs.Resolve(ctx, payment)
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "remote order id resolution failed", Err: err}
	}
	if !ok || remoteID == "" {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "no remote order id resolved"}
	}
	remoteID = e.cfg.OrderIDPrefix + remoteID
	payment.RemoteID = remoteID

	// The token is minted once per checkout session; a retried payment
	// reuses it so callbacks for the earlier attempt still authenticate.
	if order.AuthToken == "" {
		token, err := newAuthToken()
		if err != nil {
			return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to mint correlation token", Err: err}
		}
		order.AuthToken = token
	}
	order.CurrentTransactionID = remoteID
	order.PollCount = 0

	if err := e.payments.Create(ctx, payment); err != nil {
		if errors.Is(err, models.ErrDuplicatePayment) {
			return nil, &ServiceError{Code: ErrCodeInternalError, Message: "remote order id already in use", Err: err}
		}
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to create payment", Err: err}
	}
	if err := e.orders.Update(ctx, order); err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to persist order correlation state", Err: err}
	}

	opts := vipps.InitiateOptions{AuthToken: order.AuthToken}
	if e.cfg.Express {
		opts.PaymentType = "eComm Express Payment"
		opts.ShippingDetailsPrefix = e.cfg.PublicBaseURL
		opts.ConsentRemovalPrefix = e.cfg.PublicBaseURL
	}

	result, err := e.client.InitiatePayment(ctx,
		remoteID,
		ToMinor(order.Total),
		fmt.Sprintf("Order %s", order.Number),
		e.notifyURL(order.ID, remoteID),
		e.returnURL(order.ID),
		opts,
	)
	if err != nil {
		// The payment stays in new and is never reconciled; the order
		// keeps its token so a later retry can replace the transaction.
		e.logger.Error("remote payment initiation failed", "order_id", order.ID, "remote_id", remoteID, "error", err)
		return nil, &ServiceError{Code: ErrCodeDeclined, Message: "payment initiation rejected by processor", Err: err}
	}

	e.logger.Info("payment initiated", "payment_id", payment.ID, "order_id", order.ID, "remote_id", remoteID)

	return &InitiatedPayment{Payment: payment, RedirectURL: result.URL}, nil
}

func (e *Engine) notifyURL(orderID uuid.UUID, remoteID string) string {
	return fmt.Sprintf("%s/payment/notify/%s/%s/%s", e.cfg.PublicBaseURL, e.cfg.GatewayID, orderID, remoteID)
}

func (e *Engine) returnURL(orderID uuid.UUID) string {
	return fmt.Sprintf("%s/payment/return/%s", e.cfg.PublicBaseURL, orderID)
}

func newAuthToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// loadForOperation fetches a payment by id and takes its reconciliation
// lock, so merchant operations and inbound notifications never interleave.
func (e *Engine) loadForOperation(ctx context.Context, paymentID uuid.UUID) (*models.Payment, func(), error) {
	payment, err := e.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "payment not found"}
		}
		return nil, nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to load payment", Err: err}
	}

	release, err := e.acquireLock(ctx, payment.RemoteID)
	if err != nil {
		return nil, nil, err
	}

	// Reload under the lock in case a racing channel just moved it.
	payment, err = e.payments.FindByID(ctx, paymentID)
	if err != nil {
		release()
		return nil, nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to reload payment", Err: err}
	}

	return payment, release, nil
}

// transitionPayment persists a merchant-initiated state change and
// publishes it.
func (e *Engine) transitionPayment(ctx context.Context, payment *models.Payment, to models.PaymentState) error {
	from := payment.State
	payment.State = to
	if to == models.PaymentStateCompleted && payment.CompletedAt == nil {
		now := time.Now()
		payment.CompletedAt = &now
	}
	if err := e.payments.Update(ctx, payment); err != nil {
		return &ServiceError{Code: ErrCodeInternalError, Message: "failed to persist payment", Err: err}
	}
	e.logger.Info("payment state transition", "payment_id", payment.ID, "from_state", from, "to_state", to)
	e.publishStateChanged(ctx, payment, from, to)
	return nil
}
