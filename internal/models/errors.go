package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePayment indicates a payment with the same remote id and
	// gateway already exists
	ErrDuplicatePayment = errors.New("duplicate payment")
)
