package service

import (
	"github.com/shopspring/decimal"

	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// minorUnitFactor converts between major and minor currency units.
var minorUnitFactor = decimal.NewFromInt(100)

// FromMinor converts an integer minor-unit amount (øre, cents) to a
// decimal major-unit amount without losing precision.
func FromMinor(amountMinor int64) decimal.Decimal {
	return decimal.NewFromInt(amountMinor).Div(minorUnitFactor)
}

// ToMinor converts a decimal major-unit amount to integer minor units.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitFactor).IntPart()
}

// AmendedAmount derives the authoritative payment amount from the remote
// transaction summary: everything already captured plus everything still
// capturable. The remote ledger is the source of truth when local and
// remote disagree, e.g. after an express checkout changed the total.
func AmendedAmount(summary vipps.TransactionSummary) decimal.Decimal {
	return FromMinor(summary.CapturedAmount + summary.RemainingAmountToCapture)
}

// LastSuccessfulCapture returns the most recent successful CAPTURE or
// SALE entry in the ledger, if any. Used when a capture is declined with
// insufficient funds: the remote side may already have captured through
// another channel, and that entry's amount and timestamp are adopted
// instead of failing the payment.
func LastSuccessfulCapture(ledger []vipps.LedgerEntry) (vipps.LedgerEntry, bool) {
	var latest vipps.LedgerEntry
	var found bool
	for _, entry := range ledger {
		if !entry.OperationSuccess {
			continue
		}
		if entry.Operation != vipps.OperationCapture && entry.Operation != vipps.OperationSale {
			continue
		}
		if !found || entry.TimeStamp.After(latest.TimeStamp) {
			latest = entry
			found = true
		}
	}
	return latest, found
}
