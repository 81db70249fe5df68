package service

import (
	"errors"
	"fmt"

	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

// ErrUnmappedStatus is returned for a remote status outside the known
// vocabulary. The caller decides whether that is fatal; it must never be
// defaulted into a terminal state.
var ErrUnmappedStatus = errors.New("unmapped remote status")

// ClassifyRemoteStatus maps a remote processor status to the local
// payment state. pending is true for INITIATE, where the processor has
// not issued a final status yet and the caller should retry later.
// Comparisons are case-sensitive on the processor's canonical vocabulary.
func ClassifyRemoteStatus(remoteStatus string) (state models.PaymentState, pending bool, err error) {
	switch remoteStatus {
	case vipps.StatusReserve, vipps.StatusReserved:
		return models.PaymentStateAuthorization, false, nil

	case vipps.StatusSale:
		return models.PaymentStateCompleted, false, nil

	case vipps.StatusInitiate:
		return "", true, nil

	case vipps.StatusReserveFailed, vipps.StatusSaleFailed, vipps.StatusCancel, vipps.StatusCancelled, vipps.StatusRejected:
		return models.PaymentStateFailed, false, nil

	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnmappedStatus, remoteStatus)
	}
}
