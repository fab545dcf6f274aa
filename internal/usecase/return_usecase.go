package usecase

import (
	"context"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// ReturnResult describes a browser return for display. GatewaySuccess is what
// the redirect claims; PaymentStatus is what the ledger says.
type ReturnResult struct {
	TxnRef         string
	SignatureValid bool
	ResponseCode   string
	GatewaySuccess bool
	Found          bool
	PaymentStatus  entities.PaymentStatus
	Amount         int64
}

// IReturnUseCase inspects the browser return redirect. It never changes a
// payment status: the redirect may never arrive, so only the IPN is
// authoritative.
type IReturnUseCase interface {
	Inspect(ctx context.Context, params map[string]string) (ReturnResult, error)
}

type ReturnUseCase struct {
	payments interfaces.IPaymentRepository
	events   interfaces.IGatewayEventRepository
	gateway  interfaces.IPaymentGateway
	log      *zap.Logger
	now      func() time.Time
}

var _ IReturnUseCase = (*ReturnUseCase)(nil)

func NewReturnUseCase(
	payments interfaces.IPaymentRepository,
	events interfaces.IGatewayEventRepository,
	gateway interfaces.IPaymentGateway,
	log *zap.Logger,
) *ReturnUseCase {
	return &ReturnUseCase{
		payments: payments,
		events:   events,
		gateway:  gateway,
		log:      nopIfNil(log),
		now:      time.Now,
	}
}

func (u *ReturnUseCase) Inspect(ctx context.Context, params map[string]string) (ReturnResult, error) {
	cb, check := u.gateway.ParseCallback(params)
	log := u.log.With(zap.String("txn_ref", cb.TxnRef))

	res := ReturnResult{
		TxnRef:         cb.TxnRef,
		SignatureValid: check.Valid,
		ResponseCode:   cb.ResponseCode,
		GatewaySuccess: check.Valid && gatewaySucceeded(cb),
	}
	outcome := "signature_invalid"
	if check.Valid {
		outcome = "signature_valid"
	} else {
		log.Warn("[payment][return] signature mismatch on browser return")
	}
	defer func() { u.record(ctx, log, cb, res, outcome) }()

	if cb.TxnRef == "" {
		outcome = "txn_ref_missing"
		return res, nil
	}

	p, err := u.payments.GetByTxnRef(ctx, cb.TxnRef)
	if err != nil {
		log.Error("[payment][return] load payment failed", zap.Error(err))
		outcome = "storage_error"
		return res, err
	}
	if p.TxnRef == "" {
		outcome = "payment_not_found"
		return res, nil
	}
	res.Found = true
	res.PaymentStatus = p.Status
	res.Amount = p.Amount

	// keep the first signed return payload next to the ledger row for audit
	if check.Valid && p.RawReturn == "" {
		if err := u.payments.AttachRawReturn(ctx, p.TxnRef, cb.Raw); err != nil {
			log.Warn("[payment][return] attach raw return failed", zap.Error(err))
		}
	}

	if res.GatewaySuccess && p.Status == entities.PaymentStatusPending {
		log.Info("[payment][return] gateway reports success before ipn")
	}
	return res, nil
}

func (u *ReturnUseCase) record(ctx context.Context, log *zap.Logger, cb interfaces.GatewayCallback, res ReturnResult, reason string) {
	if u.events == nil {
		return
	}
	outcome := string(res.PaymentStatus)
	if outcome == "" {
		outcome = cb.ResponseCode
	}
	err := u.events.Create(ctx, entities.GatewayEvent{
		Gateway:    u.gateway.Name(),
		Kind:       entities.GatewayEventReturn,
		TxnRef:     cb.TxnRef,
		Outcome:    outcome,
		Reason:     reason,
		RawQuery:   cb.Raw,
		ReceivedAt: u.now().UTC(),
	})
	if err != nil {
		log.Warn("[payment][return] gateway event not recorded", zap.Error(err))
	}
}
