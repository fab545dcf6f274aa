package interfaces

import (
	"context"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

// IPaymentRepository is the payment ledger store.
//
// Lookups return a zero Payment (TxnRef == "") when nothing matches.
// Transition is a compare-and-set: it writes only when the stored status still
// equals from, and reports applied=false (with a nil error) when another
// writer got there first.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByTxnRef(ctx context.Context, txnRef string) (entities.Payment, error)
	Transition(ctx context.Context, txnRef string, from entities.PaymentStatus, t entities.PaymentTransition) (updated entities.Payment, applied bool, err error)
	AttachRawReturn(ctx context.Context, txnRef string, raw string) error
	ListPendingExpiredBefore(ctx context.Context, before time.Time, limit int32) ([]entities.Payment, error)
}
