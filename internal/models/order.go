package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order owns the payments created for a checkout, together with the
// session-scoped correlation state used to authenticate processor
// callbacks.
//
// AuthToken is minted once when the first payment is initiated and is
// never regenerated while a transaction is outstanding. Both AuthToken
// and CurrentTransactionID are cleared once the outstanding transaction
// resolves terminally.
type Order struct {
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
	Number               string          `db:"number"`
	Email                string          `db:"email"`
	Currency             string          `db:"currency"`
	AuthToken            string          `db:"auth_token"`
	CurrentTransactionID string          `db:"current_transaction_id"`
	Total                decimal.Decimal `db:"total"`
	PollCount            int             `db:"poll_count"`
	ID                   uuid.UUID       `db:"id"`
}
