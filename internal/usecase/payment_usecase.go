package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// IPaymentUseCase covers ledger reads and the operator transitions that do
// not come from the gateway.
type IPaymentUseCase interface {
	GetByTxnRef(ctx context.Context, txnRef string) (entities.Payment, error)
	CancelExpired(ctx context.Context, txnRef string) (entities.Payment, error)
	MarkRefunded(ctx context.Context, txnRef string) (entities.Payment, error)
}

type PaymentUseCase struct {
	payments    interfaces.IPaymentRepository
	gateway     interfaces.IPaymentGateway
	coordinator ISettlementCoordinator
	log         *zap.Logger
	now         func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(
	payments interfaces.IPaymentRepository,
	gateway interfaces.IPaymentGateway,
	coordinator ISettlementCoordinator,
	log *zap.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		payments:    payments,
		gateway:     gateway,
		coordinator: coordinator,
		log:         nopIfNil(log),
		now:         time.Now,
	}
}

func (u *PaymentUseCase) GetByTxnRef(ctx context.Context, txnRef string) (entities.Payment, error) {
	txnRef = strings.TrimSpace(txnRef)
	if txnRef == "" {
		return entities.Payment{}, ErrInvalidTxnRef
	}

	p, err := u.payments.GetByTxnRef(ctx, txnRef)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.TxnRef == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

// CancelExpired closes a PENDING payment whose checkout window has passed.
// A payment still inside its window may yet be confirmed and is left alone,
// and so is one the gateway does not report as failed or not found: a late
// IPN for a paid transaction must still find it PENDING.
func (u *PaymentUseCase) CancelExpired(ctx context.Context, txnRef string) (entities.Payment, error) {
	p, err := u.GetByTxnRef(ctx, txnRef)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.Status != entities.PaymentStatusPending {
		return p, ErrPaymentNotPending
	}
	now := u.now().UTC()
	if now.Before(p.ExpireAt) {
		return p, ErrPaymentNotExpired
	}
	if err := u.confirmUnpaid(ctx, p); err != nil {
		return p, err
	}

	updated, applied, err := u.payments.Transition(ctx, p.TxnRef, entities.PaymentStatusPending, entities.PaymentTransition{
		To: entities.PaymentStatusCancelled,
		At: now,
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if !applied {
		// an IPN settled it between the read and the write
		return u.reload(ctx, p), ErrPaymentNotPending
	}
	u.log.Info("[payment][admin] expired payment cancelled", zap.String("txn_ref", p.TxnRef))
	u.settle(ctx, updated)
	return updated, nil
}

func (u *PaymentUseCase) confirmUnpaid(ctx context.Context, p entities.Payment) error {
	if u.gateway == nil {
		return ErrGatewayNotConfigured
	}
	res, err := u.gateway.QueryTransaction(ctx, interfaces.TransactionQuery{
		TxnRef:          p.TxnRef,
		OrderInfo:       p.OrderInfo,
		TransactionDate: p.CreatedAt,
	})
	if err != nil {
		res.State = interfaces.GatewayStateUnknown
	}
	switch res.State {
	case interfaces.GatewayStateFailed, interfaces.GatewayStateNotFound:
		return nil
	}
	u.log.Warn("[payment][admin] cancel refused, gateway does not confirm the payment failed",
		zap.String("txn_ref", p.TxnRef),
		zap.String("gateway_state", string(res.State)),
		zap.Error(err))
	return ErrCancelNotConfirmed
}

// MarkRefunded records a refund executed outside the gateway flow.
func (u *PaymentUseCase) MarkRefunded(ctx context.Context, txnRef string) (entities.Payment, error) {
	p, err := u.GetByTxnRef(ctx, txnRef)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.Status != entities.PaymentStatusPaid {
		return p, ErrPaymentNotPaid
	}

	now := u.now().UTC()
	updated, applied, err := u.payments.Transition(ctx, p.TxnRef, entities.PaymentStatusPaid, entities.PaymentTransition{
		To:         entities.PaymentStatusRefunded,
		RefundedAt: &now,
		At:         now,
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if !applied {
		return u.reload(ctx, p), ErrPaymentNotPaid
	}
	u.log.Info("[payment][admin] payment refunded", zap.String("txn_ref", p.TxnRef), zap.Int64("amount", p.Amount))
	u.settle(ctx, updated)
	return updated, nil
}

// reload re-reads p, falling back to the stale copy on error.
func (u *PaymentUseCase) reload(ctx context.Context, p entities.Payment) entities.Payment {
	fresh, err := u.payments.GetByTxnRef(ctx, p.TxnRef)
	if err != nil || fresh.TxnRef == "" {
		return p
	}
	return fresh
}

func (u *PaymentUseCase) settle(ctx context.Context, p entities.Payment) {
	if u.coordinator == nil {
		return
	}
	if err := u.coordinator.Apply(ctx, p); err != nil {
		u.log.Error("[payment][admin] side effects incomplete", zap.String("txn_ref", p.TxnRef), zap.Error(err))
	}
}
