package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nordcommerce/vipps-gateway/internal/models"
)

type paymentResponse struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	State          string     `json:"state"`
	RemoteState    string     `json:"remote_state,omitempty"`
	RemoteID       string     `json:"remote_id"`
	Currency       string     `json:"currency"`
	Amount         string     `json:"amount"`
	CapturedAmount string     `json:"captured_amount"`
	RefundedAmount string     `json:"refunded_amount"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func toPaymentResponse(payment *models.Payment) paymentResponse {
	return paymentResponse{
		ID:             payment.ID.String(),
		OrderID:        payment.OrderID.String(),
		State:          string(payment.State),
		RemoteState:    payment.RemoteState,
		RemoteID:       payment.RemoteID,
		Currency:       payment.Currency,
		Amount:         payment.Amount.StringFixed(2),
		CapturedAmount: payment.CapturedAmount.StringFixed(2),
		RefundedAmount: payment.RefundedAmount.StringFixed(2),
		CompletedAt:    payment.CompletedAt,
	}
}

// amountRequest is the optional body of capture and refund requests. An
// absent or zero amount means the full outstanding amount.
type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
