package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// ReconcileReport compares the ledger with what the gateway says about one
// transaction. It is a report only: nothing here writes the ledger.
type ReconcileReport struct {
	TxnRef           string                  `json:"txn_ref"`
	LedgerStatus     entities.PaymentStatus  `json:"ledger_status"`
	LedgerAmount     int64                   `json:"ledger_amount"`
	GatewayState     interfaces.GatewayState `json:"gateway_state"`
	GatewayCode      string                  `json:"gateway_response_code,omitempty"`
	GatewayTxnStatus string                  `json:"gateway_transaction_status,omitempty"`
	GatewayAmount    string                  `json:"gateway_amount,omitempty"`
	GatewayTxnNo     string                  `json:"gateway_transaction_no,omitempty"`
	Discrepancy      bool                    `json:"discrepancy"`
	Detail           string                  `json:"detail,omitempty"`
	CheckedAt        time.Time               `json:"checked_at"`
}

type SweepSummary struct {
	Checked       int               `json:"checked"`
	Discrepancies int               `json:"discrepancies"`
	Unknown       int               `json:"unknown"`
	Reports       []ReconcileReport `json:"reports"`
}

// IReconciliationUseCase queries the gateway for payments whose notification
// may have been missed.
type IReconciliationUseCase interface {
	Reconcile(ctx context.Context, txnRef string) (ReconcileReport, error)
	SweepExpired(ctx context.Context) (SweepSummary, error)
}

type ReconciliationOptions struct {
	// Grace is added to expire_at before a pending payment is swept.
	Grace     time.Duration
	BatchSize int32
}

type ReconciliationUseCase struct {
	payments interfaces.IPaymentRepository
	events   interfaces.IGatewayEventRepository
	gateway  interfaces.IPaymentGateway
	opts     ReconciliationOptions
	log      *zap.Logger
	now      func() time.Time
}

var _ IReconciliationUseCase = (*ReconciliationUseCase)(nil)

func NewReconciliationUseCase(
	payments interfaces.IPaymentRepository,
	events interfaces.IGatewayEventRepository,
	gateway interfaces.IPaymentGateway,
	opts ReconciliationOptions,
	log *zap.Logger,
) *ReconciliationUseCase {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	return &ReconciliationUseCase{
		payments: payments,
		events:   events,
		gateway:  gateway,
		opts:     opts,
		log:      nopIfNil(log),
		now:      time.Now,
	}
}

func (u *ReconciliationUseCase) Reconcile(ctx context.Context, txnRef string) (ReconcileReport, error) {
	txnRef = strings.TrimSpace(txnRef)
	if _, err := entities.ParseTxnRef(txnRef); err != nil {
		return ReconcileReport{}, ErrInvalidTxnRef
	}

	p, err := u.payments.GetByTxnRef(ctx, txnRef)
	if err != nil {
		return ReconcileReport{}, err
	}
	if p.TxnRef == "" {
		return ReconcileReport{}, ErrPaymentNotFound
	}
	return u.reconcile(ctx, p), nil
}

func (u *ReconciliationUseCase) reconcile(ctx context.Context, p entities.Payment) ReconcileReport {
	log := u.log.With(zap.String("txn_ref", p.TxnRef), zap.String("ledger_status", string(p.Status)))

	res, err := u.gateway.QueryTransaction(ctx, interfaces.TransactionQuery{
		TxnRef:          p.TxnRef,
		OrderInfo:       p.OrderInfo,
		TransactionDate: p.CreatedAt,
	})
	if err != nil {
		// fail closed: an unanswered query is never read as "not paid"
		res.State = interfaces.GatewayStateUnknown
		log.Warn("[payment][reconcile] gateway query inconclusive", zap.Error(err))
	}

	report := ReconcileReport{
		TxnRef:           p.TxnRef,
		LedgerStatus:     p.Status,
		LedgerAmount:     p.Amount,
		GatewayState:     res.State,
		GatewayCode:      res.ResponseCode,
		GatewayTxnStatus: res.TransactionStatus,
		GatewayAmount:    res.Amount,
		GatewayTxnNo:     res.TransactionNo,
		CheckedAt:        u.now().UTC(),
	}
	report.Discrepancy, report.Detail = compareLedger(p, res)
	if err != nil && report.Detail == "" {
		report.Detail = err.Error()
	}

	if report.Discrepancy {
		log.Error("[payment][reconcile] ledger and gateway disagree",
			zap.String("gateway_state", string(res.State)),
			zap.String("gateway_response_code", res.ResponseCode),
			zap.String("gateway_transaction_status", res.TransactionStatus),
			zap.String("detail", report.Detail))
	} else {
		log.Info("[payment][reconcile] checked",
			zap.String("gateway_state", string(res.State)))
	}

	if u.events != nil {
		outcome := "consistent"
		if report.Discrepancy {
			outcome = "discrepancy"
		}
		evErr := u.events.Create(ctx, entities.GatewayEvent{
			Gateway:    u.gateway.Name(),
			Kind:       entities.GatewayEventQueryDR,
			TxnRef:     p.TxnRef,
			Outcome:    outcome,
			Reason:     string(res.State),
			RawQuery:   res.Raw,
			ReceivedAt: report.CheckedAt,
		})
		if evErr != nil {
			log.Warn("[payment][reconcile] gateway event not recorded", zap.Error(evErr))
		}
	}
	return report
}

// SweepExpired reconciles PENDING payments whose checkout window closed more
// than Grace ago.
func (u *ReconciliationUseCase) SweepExpired(ctx context.Context) (SweepSummary, error) {
	cutoff := u.now().Add(-u.opts.Grace)
	pending, err := u.payments.ListPendingExpiredBefore(ctx, cutoff, u.opts.BatchSize)
	if err != nil {
		u.log.Error("[payment][reconcile] list expired pending failed", zap.Error(err))
		return SweepSummary{}, err
	}

	var sum SweepSummary
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		report := u.reconcile(ctx, p)
		sum.Checked++
		if report.Discrepancy {
			sum.Discrepancies++
		}
		if report.GatewayState == interfaces.GatewayStateUnknown {
			sum.Unknown++
		}
		sum.Reports = append(sum.Reports, report)
	}

	u.log.Info("[payment][reconcile] sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("checked", sum.Checked),
		zap.Int("discrepancies", sum.Discrepancies),
		zap.Int("unknown", sum.Unknown))
	return sum, nil
}

// compareLedger decides whether the gateway answer contradicts the ledger.
// Unknown and pending gateway states never count as a contradiction.
func compareLedger(p entities.Payment, res interfaces.TransactionQueryResult) (bool, string) {
	switch res.State {
	case interfaces.GatewayStateUnknown, interfaces.GatewayStatePending:
		return false, ""
	}

	switch p.Status {
	case entities.PaymentStatusPending:
		switch res.State {
		case interfaces.GatewayStatePaid:
			return true, "gateway paid but ledger pending: notification missed"
		case interfaces.GatewayStateFailed:
			return true, "gateway failed but ledger pending: notification missed"
		}
		return false, ""
	case entities.PaymentStatusPaid, entities.PaymentStatusRefunded:
		if res.State != interfaces.GatewayStatePaid {
			return true, fmt.Sprintf("ledger %s but gateway %s", p.Status, res.State)
		}
		if ok, reported := amountMatches(res.Amount, p.Amount); res.Amount != "" && !ok {
			return true, fmt.Sprintf("amount differs: ledger %d gateway %s", p.Amount, reported)
		}
		return false, ""
	case entities.PaymentStatusFailed, entities.PaymentStatusCancelled:
		if res.State == interfaces.GatewayStatePaid {
			return true, fmt.Sprintf("ledger %s but gateway paid", p.Status)
		}
		return false, ""
	}
	return false, ""
}
