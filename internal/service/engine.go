// Package service implements the reconciliation engine that unifies the
// two racing notification channels (browser return and webhook notify)
// with the merchant-initiated capture, void and refund operations.
package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nordcommerce/vipps-gateway/internal/events"
	"github.com/nordcommerce/vipps-gateway/internal/lock"
	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/repository"
	"github.com/nordcommerce/vipps-gateway/internal/resolver"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// Outcome classifies the result of a reconciliation attempt.
type Outcome string

const (
	// OutcomeApplied means a state transition was persisted.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoop means the event was a duplicate or arrived after a
	// terminal state and was deliberately ignored.
	OutcomeNoop Outcome = "noop"
	// OutcomePending means the processor has not issued a final status
	// yet; the caller should retry after RetryAfter.
	OutcomePending Outcome = "pending"
)

// ReconcileResult is the outcome of a reconciliation attempt.
type ReconcileResult struct {
	Payment    *models.Payment
	Outcome    Outcome
	RetryAfter time.Duration
}

// EngineConfig holds the per-gateway settings of the engine.
type EngineConfig struct {
	// GatewayID identifies this gateway instance in lock keys, payment
	// records and callback URLs.
	GatewayID string
	// OrderIDPrefix is prepended to resolved remote order ids, for
	// merchants creating payments from multiple independent systems.
	OrderIDPrefix string
	// PublicBaseURL is the externally reachable base URL used to build
	// callback and return URLs.
	PublicBaseURL string
	// Express enables the express-checkout surface (shipping details
	// callback, remote-ledger amount amendment on return).
	Express bool
	// PollInterval is the delay the return path asks the browser to wait
	// before retrying while the remote status is still INITIATE.
	PollInterval time.Duration
	// MaxPollAttempts bounds INITIATE polling per transaction; past the
	// budget the return path fails with ErrCodeStatusTimeout instead of
	// redirecting forever.
	MaxPollAttempts int
}

// EngineParams groups the collaborators injected into the engine.
type EngineParams struct {
	Payments  repository.PaymentRepository
	Orders    repository.OrderRepository
	Client    vipps.Client
	Locks     lock.Coordinator
	Publisher events.Publisher
	OrderIDs  *resolver.OrderIDChain
	Shipping  *resolver.ShippingMethodsChain
	Logger    *slog.Logger
}

// Engine is the reconciliation orchestrator. All payment mutations run
// under the per-transaction lock; payment and order records are loaded
// fresh inside the lock, mutated, and saved before release.
type Engine struct {
	payments  repository.PaymentRepository
	orders    repository.OrderRepository
	client    vipps.Client
	locks     lock.Coordinator
	publisher events.Publisher
	orderIDs  *resolver.OrderIDChain
	shipping  *resolver.ShippingMethodsChain
	logger    *slog.Logger
	cfg       EngineConfig
}

// NewEngine creates a reconciliation engine.
func NewEngine(cfg EngineConfig, p EngineParams) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = 90
	}
	return &Engine{
		payments:  p.Payments,
		orders:    p.Orders,
		client:    p.Client,
		locks:     p.Locks,
		publisher: p.Publisher,
		orderIDs:  p.OrderIDs,
		shipping:  p.Shipping,
		logger:    p.Logger,
		cfg:       cfg,
	}
}

// ReconcileFromNotification processes a server-to-server callback for a
// transaction. The Authorization header must equal the correlation token
// stored on the order; any correlation failure returns access denied
// without mutating state.
func (e *Engine) ReconcileFromNotification(ctx context.Context, gatewayID string, orderID uuid.UUID, remoteID, authHeader string, body []byte) (*ReconcileResult, error) {
	order, err := e.authenticateCallback(ctx, gatewayID, orderID, authHeader)
	if err != nil {
		return nil, err
	}

	release, err := e.acquireLock(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	defer release()

	payment, err := e.loadExactlyOnePayment(ctx, remoteID)
	if err != nil {
		return nil, err
	}

	var payload vipps.NotifyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		e.logger.Error("malformed notification payload", "remote_id", remoteID, "payload", string(body), "error", err)
		return nil, &ServiceError{Code: ErrCodeUnmappedStatus, Message: "malformed notification payload", Err: err}
	}

	remoteStatus := payload.TransactionInfo.Status
	state, pending, err := ClassifyRemoteStatus(remoteStatus)
	if pending {
		return &ReconcileResult{Payment: payment, Outcome: OutcomePending, RetryAfter: e.cfg.PollInterval}, nil
	}
	if err != nil {
		e.logger.Error("unmapped remote status in notification", "remote_id", remoteID, "status", remoteStatus, "payload", string(body))
		return nil, &ServiceError{Code: ErrCodeUnmappedStatus, Message: "unknown remote status", Err: err}
	}

	return e.applyRemoteState(ctx, order, payment, remoteStatus, state, payload.TransactionInfo.Amount)
}

// ReconcileFromReturn processes the browser redirect back from the
// hosted payment page. While the remote status is INITIATE the caller is
// told to retry after PollInterval; polls are counted per transaction
// and capped.
func (e *Engine) ReconcileFromReturn(ctx context.Context, orderID uuid.UUID) (*ReconcileResult, error) {
	order, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "order not found"}
		}
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to load order", Err: err}
	}
	if order.CurrentTransactionID == "" {
		return nil, &ServiceError{Code: ErrCodeNoTransaction, Message: "order has no outstanding transaction"}
	}
	remoteID := order.CurrentTransactionID

	release, err := e.acquireLock(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	defer release()

	payment, err := e.loadExactlyOnePayment(ctx, remoteID)
	if err != nil {
		return nil, err
	}

	remoteStatus, err := e.client.GetOrderStatus(ctx, remoteID)
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeDeclined, Message: "failed to fetch remote status", Err: err}
	}

	state, pending, err := ClassifyRemoteStatus(remoteStatus)
	if pending {
		order.PollCount++
		if order.PollCount > e.cfg.MaxPollAttempts {
			e.logger.Error("remote status still INITIATE after poll budget", "remote_id", remoteID, "polls", order.PollCount)
			return nil, &ServiceError{Code: ErrCodeStatusTimeout, Message: "remote processor did not reach a final status in time"}
		}
		if err := e.orders.Update(ctx, order); err != nil {
			return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to record poll attempt", Err: err}
		}
		e.logger.Info("remote status pending, scheduling retry", "remote_id", remoteID, "poll", order.PollCount)
		return &ReconcileResult{Payment: payment, Outcome: OutcomePending, RetryAfter: e.cfg.PollInterval}, nil
	}
	if err != nil {
		e.logger.Error("unmapped remote status on return", "remote_id", remoteID, "status", remoteStatus)
		return nil, &ServiceError{Code: ErrCodeUnmappedStatus, Message: "unknown remote status", Err: err}
	}

	result, err := e.applyRemoteState(ctx, order, payment, remoteStatus, state, 0)
	if err != nil {
		return nil, err
	}

	// Express checkout collects the final amount and customer details
	// remotely; sync them back once the transaction left INITIATE.
	if e.cfg.Express && result.Outcome == OutcomeApplied && state != models.PaymentStateFailed {
		e.syncExpressDetails(ctx, order, payment)
	}

	return result, nil
}

// applyRemoteState persists a classified remote state onto the payment.
// Transitions are monotonic: once a payment is terminal, stale or
// duplicate events are ignored rather than applied.
func (e *Engine) applyRemoteState(ctx context.Context, order *models.Order, payment *models.Payment, remoteStatus string, state models.PaymentState, amountMinor int64) (*ReconcileResult, error) {
	if payment.State.IsTerminal() {
		if payment.State != state {
			e.logger.Warn("ignoring stale remote event for terminal payment",
				"payment_id", payment.ID, "current_state", payment.State, "reported_state", state, "remote_status", remoteStatus)
		}
		return &ReconcileResult{Payment: payment, Outcome: OutcomeNoop}, nil
	}
	if payment.State == state {
		return &ReconcileResult{Payment: payment, Outcome: OutcomeNoop}, nil
	}

	from := payment.State

	// Express notifications carry the final amount in minor units.
	if amountMinor > 0 {
		payment.Amount = FromMinor(amountMinor)
	}

	payment.State = state
	payment.RemoteState = remoteStatus
	if state == models.PaymentStateCompleted {
		payment.CapturedAmount = payment.Amount
		now := time.Now()
		payment.CompletedAt = &now
	}

	if err := e.payments.Update(ctx, payment); err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to persist payment", Err: err}
	}
	e.logger.Info("payment state transition",
		"payment_id", payment.ID, "from_state", from, "to_state", state, "remote_status", remoteStatus)

	if state.IsTerminal() {
		e.clearCorrelationState(ctx, order)
	}

	e.publishStateChanged(ctx, payment, from, state)

	return &ReconcileResult{Payment: payment, Outcome: OutcomeApplied}, nil
}

// syncExpressDetails adopts the remote ledger's amount and hands the
// collected user and shipping details to downstream subscribers.
func (e *Engine) syncExpressDetails(ctx context.Context, order *models.Order, payment *models.Payment) {
	details, err := e.client.GetPaymentDetails(ctx, payment.RemoteID)
	if err != nil {
		e.logger.Error("failed to fetch express payment details", "remote_id", payment.RemoteID, "error", err)
		return
	}

	amended := AmendedAmount(details.TransactionSummary)
	if !amended.Equal(payment.Amount) {
		payment.Amount = amended
		if payment.State == models.PaymentStateCompleted {
			payment.CapturedAmount = amended
		}
		if err := e.payments.Update(ctx, payment); err != nil {
			e.logger.Error("failed to persist amended amount", "payment_id", payment.ID, "error", err)
			return
		}
		e.logger.Info("payment amount amended from remote ledger", "payment_id", payment.ID, "amount", amended)
	}

	if err := e.publisher.PublishExpressReturned(ctx, events.ExpressReturned{
		PaymentID:  payment.ID,
		OrderID:    order.ID,
		RemoteID:   payment.RemoteID,
		Details:    details,
		OccurredAt: time.Now(),
	}); err != nil {
		e.logger.Error("failed to publish express return event", "payment_id", payment.ID, "error", err)
	}
}

// ShippingDetails answers the processor's express-checkout callback
// asking which shipping methods are available for an address. It is
// authenticated exactly like a notification.
func (e *Engine) ShippingDetails(ctx context.Context, gatewayID string, orderID uuid.UUID, remoteID, authHeader string, body []byte) (*vipps.FetchShippingCostResponse, error) {
	order, err := e.authenticateCallback(ctx, gatewayID, orderID, authHeader)
	if err != nil {
		return nil, err
	}

	if _, err := e.loadExactlyOnePayment(ctx, remoteID); err != nil {
		return nil, err
	}

	var request vipps.FetchShippingCostRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "malformed shipping details request", Err: err}
	}

	methods, ok, err := e.shipping.Resolve(ctx, resolver.ShippingQuery{Order: order, Request: &request})
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "shipping method resolution failed", Err: err}
	}
	if !ok {
		methods = []vipps.ShippingMethod{}
	}

	return &vipps.FetchShippingCostResponse{
		AddressID:       request.AddressID,
		OrderID:         remoteID,
		ShippingDetails: methods,
	}, nil
}

// authenticateCallback validates the gateway id and the correlation
// token of an inbound processor callback. All failure modes collapse
// into access denied.
func (e *Engine) authenticateCallback(ctx context.Context, gatewayID string, orderID uuid.UUID, authHeader string) (*models.Order, error) {
	if gatewayID != e.cfg.GatewayID {
		return nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "unknown gateway"}
	}

	order, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "order not found"}
		}
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to load order", Err: err}
	}

	if order.AuthToken == "" || subtle.ConstantTimeCompare([]byte(order.AuthToken), []byte(authHeader)) != 1 {
		return nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "correlation token mismatch"}
	}

	return order, nil
}

// loadExactlyOnePayment loads the single payment correlated to a remote
// transaction. Zero or multiple matches is a reconciliation integrity
// failure; ambiguous correlation is never guessed.
func (e *Engine) loadExactlyOnePayment(ctx context.Context, remoteID string) (*models.Payment, error) {
	payments, err := e.payments.FindByRemoteID(ctx, remoteID, e.cfg.GatewayID)
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to load payments", Err: err}
	}
	if len(payments) != 1 {
		e.logger.Error("payment lookup did not match exactly one payment", "remote_id", remoteID, "matches", len(payments))
		return nil, &ServiceError{Code: ErrCodeAccessDenied, Message: "ambiguous payment correlation"}
	}
	return payments[0], nil
}

func (e *Engine) acquireLock(ctx context.Context, remoteID string) (func(), error) {
	release, err := e.locks.Acquire(ctx, lock.Key(e.cfg.GatewayID, remoteID))
	if err != nil {
		if errors.Is(err, lock.ErrAcquireTimeout) {
			return nil, &ServiceError{Code: ErrCodeLockTimeout, Message: "could not acquire reconciliation lock", Err: err}
		}
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "lock acquisition failed", Err: err}
	}
	return release, nil
}

// clearCorrelationState drops the order's auth token and outstanding
// transaction id once the transaction resolved terminally. Failure to
// clear never fails the reconciliation that already committed.
func (e *Engine) clearCorrelationState(ctx context.Context, order *models.Order) {
	order.AuthToken = ""
	order.CurrentTransactionID = ""
	order.PollCount = 0
	if err := e.orders.Update(ctx, order); err != nil {
		e.logger.Error("failed to clear order correlation state", "order_id", order.ID, "error", err)
	}
}

// publishStateChanged notifies downstream subscribers after the
// transition has been persisted. Publish failures are logged, never
// propagated: subscribers are collaborators, not part of the
// reconciliation transaction.
func (e *Engine) publishStateChanged(ctx context.Context, payment *models.Payment, from, to models.PaymentState) {
	if err := e.publisher.PublishStateChanged(ctx, events.StateChanged{
		PaymentID:  payment.ID,
		OrderID:    payment.OrderID,
		RemoteID:   payment.RemoteID,
		From:       from,
		To:         to,
		OccurredAt: time.Now(),
	}); err != nil {
		e.logger.Error("failed to publish state change event", "payment_id", payment.ID, "error", err)
	}
}
