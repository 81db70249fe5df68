// Package vipps defines the boundary to the Vipps eComm payment processor:
// the operations this service consumes and the wire types crossing them.
// All monetary amounts at this boundary are integers in minor currency
// units (øre).
package vipps

import "time"

// Remote transaction statuses as reported by the processor. The vocabulary
// differs slightly between the polling API (RESERVE, CANCEL) and the
// webhook payload (RESERVED, CANCELLED).
const (
	StatusReserve       = "RESERVE"
	StatusReserved      = "RESERVED"
	StatusSale          = "SALE"
	StatusInitiate      = "INITIATE"
	StatusReserveFailed = "RESERVE_FAILED"
	StatusSaleFailed    = "SALE_FAILED"
	StatusCancel        = "CANCEL"
	StatusCancelled     = "CANCELLED"
	StatusRejected      = "REJECTED"
)

// Ledger operation kinds found in the transaction log history.
const (
	OperationCapture = "CAPTURE"
	OperationSale    = "SALE"
	OperationRefund  = "REFUND"
	OperationCancel  = "CANCEL"
	OperationReserve = "RESERVE"
)

// TransactionInfo is the status block of a webhook payload or status poll.
type TransactionInfo struct {
	TimeStamp     time.Time `json:"timeStamp"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transactionId"`
	Amount        int64     `json:"amount"`
}

// NotifyPayload is the body of a server-to-server callback.
type NotifyPayload struct {
	MerchantSerialNumber string          `json:"merchantSerialNumber"`
	OrderID              string          `json:"orderId"`
	TransactionInfo      TransactionInfo `json:"transactionInfo"`
}

// LedgerEntry is one immutable remote-reported operation from the
// transaction log history.
type LedgerEntry struct {
	TimeStamp        time.Time `json:"timeStamp"`
	Operation        string    `json:"operation"`
	TransactionText  string    `json:"transactionText"`
	TransactionID    string    `json:"transactionId"`
	RequestID        string    `json:"requestId"`
	Amount           int64     `json:"amount"`
	OperationSuccess bool      `json:"operationSuccess"`
}

// TransactionSummary aggregates the remote ledger for a transaction.
type TransactionSummary struct {
	CapturedAmount           int64 `json:"capturedAmount"`
	RemainingAmountToCapture int64 `json:"remainingAmountToCapture"`
	RefundedAmount           int64 `json:"refundedAmount"`
	RemainingAmountToRefund  int64 `json:"remainingAmountToRefund"`
}

// UserDetails holds customer data returned for express payments.
type UserDetails struct {
	UserID       string `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
}

// ShippingAddress is the address selected during express checkout.
type ShippingAddress struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Country      string `json:"country"`
	PostCode     string `json:"postCode"`
}

// ShippingDetails is the shipping selection returned for express payments.
type ShippingDetails struct {
	Address          ShippingAddress `json:"address"`
	ShippingMethod   string          `json:"shippingMethod"`
	ShippingMethodID string          `json:"shippingMethodId"`
	ShippingCost     int64           `json:"shippingCost"`
}

// PaymentDetails is the full remote view of a transaction.
type PaymentDetails struct {
	OrderID               string             `json:"orderId"`
	TransactionSummary    TransactionSummary `json:"transactionSummary"`
	TransactionLogHistory []LedgerEntry      `json:"transactionLogHistory"`
	UserDetails           *UserDetails       `json:"userDetails,omitempty"`
	ShippingDetails       *ShippingDetails   `json:"shippingDetails,omitempty"`
}

// FetchShippingCostRequest is the processor's callback body asking for
// available shipping methods during express checkout.
type FetchShippingCostRequest struct {
	AddressID    int    `json:"addressId"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Country      string `json:"country"`
	PostCode     string `json:"postCode"`
}

// ShippingMethod is one available shipping option in a shipping cost
// response. Priority follows the processor convention: lower is shown
// first, IsDefault is "Y" or "N".
type ShippingMethod struct {
	IsDefault        string `json:"isDefault"`
	ShippingMethod   string `json:"shippingMethod"`
	ShippingMethodID string `json:"shippingMethodId"`
	Priority         int    `json:"priority"`
	ShippingCost     int64  `json:"shippingCost"`
}

// FetchShippingCostResponse answers a FetchShippingCostRequest.
type FetchShippingCostResponse struct {
	AddressID       int              `json:"addressId"`
	OrderID         string           `json:"orderId"`
	ShippingDetails []ShippingMethod `json:"shippingDetails"`
}

// InitiateOptions carries optional initiate-payment parameters. AuthToken
// is echoed back by the processor in the Authorization header of every
// callback for the transaction.
type InitiateOptions struct {
	AuthToken             string           `json:"authToken,omitempty"`
	PaymentType           string           `json:"paymentType,omitempty"`
	ShippingDetailsPrefix string           `json:"shippingDetailsPrefix,omitempty"`
	ConsentRemovalPrefix  string           `json:"consentRemovalPrefix,omitempty"`
	IsApp                 bool             `json:"isApp,omitempty"`
	StaticShippingDetails []ShippingMethod `json:"staticShippingDetails,omitempty"`
}

// InitiateResult is the outcome of initiating a payment: the hosted page
// the customer must be redirected to.
type InitiateResult struct {
	URL     string `json:"url"`
	OrderID string `json:"orderId"`
}
