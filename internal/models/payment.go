package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentState represents the local lifecycle state of a payment
type PaymentState string

const (
	PaymentStateNew                PaymentState = "new"
	PaymentStateAuthorization      PaymentState = "authorization"
	PaymentStateCompleted          PaymentState = "completed"
	PaymentStatePartiallyRefunded  PaymentState = "partially_refunded"
	PaymentStateRefunded           PaymentState = "refunded"
	PaymentStateFailed             PaymentState = "failed"
	PaymentStateAuthorizationVoided PaymentState = "authorization_voided"
)

// IsTerminal reports whether no remote event may move the payment to a
// different state. Refunds of a completed payment are merchant-initiated
// operations, not remote events, so completed is terminal here.
func (s PaymentState) IsTerminal() bool {
	switch s {
	case PaymentStateCompleted, PaymentStateRefunded, PaymentStateFailed, PaymentStateAuthorizationVoided:
		return true
	}
	return false
}

// Payment represents a single attempted charge against the remote processor.
//
// Amount is the authorized amount until capture; a partial capture splits
// the payment, leaving the remainder on the parent. CapturedAmount and
// RefundedAmount must satisfy refunded <= captured <= amount at all times.
type Payment struct {
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	CompletedAt    *time.Time      `db:"completed_at"`
	Gateway        string          `db:"gateway"`
	State          PaymentState    `db:"state"`
	RemoteState    string          `db:"remote_state"`
	RemoteID       string          `db:"remote_id"`
	Currency       string          `db:"currency"`
	Amount         decimal.Decimal `db:"amount"`
	CapturedAmount decimal.Decimal `db:"captured_amount"`
	RefundedAmount decimal.Decimal `db:"refunded_amount"`
	ID             uuid.UUID       `db:"id"`
	OrderID        uuid.UUID       `db:"order_id"`
}

// OutstandingRefundable returns captured minus already refunded.
func (p *Payment) OutstandingRefundable() decimal.Decimal {
	return p.CapturedAmount.Sub(p.RefundedAmount)
}
