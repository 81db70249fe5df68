package vipps

import (
	"context"
	"errors"
	"fmt"
)

// Client is the set of remote processor operations this service consumes.
type Client interface {
	// InitiatePayment creates a transaction and returns the hosted payment
	// page URL. callbackURL is the notify endpoint for this transaction,
	// returnURL the browser redirect target.
	InitiatePayment(ctx context.Context, remoteID string, amountMinor int64, description, callbackURL, returnURL string, opts InitiateOptions) (*InitiateResult, error)

	// GetOrderStatus returns the current remote status for a transaction.
	GetOrderStatus(ctx context.Context, remoteID string) (string, error)

	// GetPaymentDetails returns the full remote view including the
	// transaction log history.
	GetPaymentDetails(ctx context.Context, remoteID string) (*PaymentDetails, error)

	// CapturePayment captures amountMinor from a reserved transaction.
	CapturePayment(ctx context.Context, remoteID, text string, amountMinor int64) error

	// CancelPayment cancels a reserved transaction.
	CancelPayment(ctx context.Context, remoteID, text string) error

	// RefundPayment refunds amountMinor from a captured transaction.
	RefundPayment(ctx context.Context, remoteID, text string, amountMinor int64) error
}

// Processor error codes relevant to reconciliation.
const (
	// ErrCodeInsufficientFunds is returned on capture when the reserved
	// amount no longer covers the requested capture.
	ErrCodeInsufficientFunds = 61
)

// Error is an error reported by the processor itself, as opposed to a
// transport failure.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("vipps: %s (code %d)", e.Message, e.Code)
}

// IsInsufficientFunds reports whether err is a processor-reported
// insufficient funds error.
func IsInsufficientFunds(err error) bool {
	var verr *Error
	return errors.As(err, &verr) && verr.Code == ErrCodeInsufficientFunds
}
