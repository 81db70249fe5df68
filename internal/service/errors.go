package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	// ErrCodeAccessDenied covers every correlation failure: unknown order,
	// token mismatch, and ambiguous or absent payment lookup. They are
	// deliberately indistinguishable to the caller.
	ErrCodeAccessDenied = "access_denied"

	// ErrCodeUnmappedStatus flags a remote status outside the known
	// vocabulary. Never folded into generic failure so operators can see
	// it separately.
	ErrCodeUnmappedStatus = "unmapped_remote_status"

	// ErrCodeStatusTimeout is raised when the return path has polled the
	// remote status past its budget without leaving INITIATE.
	ErrCodeStatusTimeout = "status_poll_timeout"

	ErrCodeInvalidState         = "invalid_payment_state"
	ErrCodeInvalidAmount        = "invalid_amount"
	ErrCodeRefundExceedsBalance = "refund_exceeds_balance"
	ErrCodeNoTransaction        = "no_outstanding_transaction"
	ErrCodeDeclined             = "declined"
	ErrCodeLockTimeout          = "lock_timeout"
	ErrCodeInternalError        = "internal_error"
)
