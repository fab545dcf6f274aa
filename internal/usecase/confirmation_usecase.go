package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"
	"github.com/NMHx2005/lms-backend-sub006/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AckCode is the acknowledgment the gateway expects in the IPN response body.
type AckCode string

const (
	AckSuccess          AckCode = "00"
	AckOrderNotFound    AckCode = "01"
	AckAlreadyConfirmed AckCode = "02"
	AckInvalidAmount    AckCode = "04"
	AckInvalidSignature AckCode = "97"
	AckUnknownError     AckCode = "99"
)

var ackMessages = map[AckCode]string{
	AckSuccess:          "Confirm Success",
	AckOrderNotFound:    "Order not found",
	AckAlreadyConfirmed: "Order already confirmed",
	AckInvalidAmount:    "Invalid amount",
	AckInvalidSignature: "Invalid signature",
	AckUnknownError:     "Unknown error",
}

func (c AckCode) Message() string { return ackMessages[c] }

const (
	gatewaySuccessCode = "00"
	// amountEpsilon absorbs rounding of the x100 wire amount only.
	amountEpsilon = "0.01"
)

var (
	errSignatureInvalid = errors.New("signature invalid")
	errAmountMismatch   = errors.New("amount mismatch")
)

// ConfirmationResult is what the IPN endpoint reports back to the gateway.
type ConfirmationResult struct {
	Code    AckCode
	TxnRef  string
	Status  entities.PaymentStatus
	Applied bool
}

func (r ConfirmationResult) Message() string { return r.Code.Message() }

// IConfirmationUseCase applies an IPN to the ledger.
//
// It is safe under duplicate, concurrent and out-of-order delivery: the only
// write is a compare-and-set from PENDING, and side effects run only for the
// delivery that won it.
type IConfirmationUseCase interface {
	Confirm(ctx context.Context, params map[string]string) ConfirmationResult
}

type ConfirmationUseCase struct {
	payments    interfaces.IPaymentRepository
	events      interfaces.IGatewayEventRepository
	gateway     interfaces.IPaymentGateway
	coordinator ISettlementCoordinator
	log         *zap.Logger
	now         func() time.Time
}

var _ IConfirmationUseCase = (*ConfirmationUseCase)(nil)

func NewConfirmationUseCase(
	payments interfaces.IPaymentRepository,
	events interfaces.IGatewayEventRepository,
	gateway interfaces.IPaymentGateway,
	coordinator ISettlementCoordinator,
	log *zap.Logger,
) *ConfirmationUseCase {
	return &ConfirmationUseCase{
		payments:    payments,
		events:      events,
		gateway:     gateway,
		coordinator: coordinator,
		log:         nopIfNil(log),
		now:         time.Now,
	}
}

func (u *ConfirmationUseCase) Confirm(ctx context.Context, params map[string]string) ConfirmationResult {
	cb, check := u.gateway.ParseCallback(params)
	log := u.log.With(zap.String("txn_ref", cb.TxnRef), zap.String("response_code", cb.ResponseCode))

	res, reason := u.confirm(ctx, log, cb, check)
	u.record(ctx, log, entities.GatewayEventIPN, cb, res.Code, reason)
	return res
}

func (u *ConfirmationUseCase) confirm(
	ctx context.Context,
	log *zap.Logger,
	cb interfaces.GatewayCallback,
	check interfaces.SignatureCheck,
) (ConfirmationResult, string) {
	res := ConfirmationResult{TxnRef: cb.TxnRef}

	if !check.Valid {
		log.Warn("[payment][ipn] signature rejected", logger.Audit(),
			zap.String("received_hash", check.Received),
			zap.Error(errSignatureInvalid))
		res.Code = AckInvalidSignature
		return res, "signature_invalid"
	}

	if _, err := entities.ParseTxnRef(cb.TxnRef); err != nil {
		log.Warn("[payment][ipn] unparseable txn ref", zap.Error(err))
		res.Code = AckOrderNotFound
		return res, "txn_ref_invalid"
	}

	p, err := u.payments.GetByTxnRef(ctx, cb.TxnRef)
	if err != nil {
		log.Error("[payment][ipn] load payment failed", zap.Error(err))
		res.Code = AckUnknownError
		return res, "storage_error"
	}
	if p.TxnRef == "" {
		log.Warn("[payment][ipn] payment not found")
		res.Code = AckOrderNotFound
		return res, "payment_not_found"
	}
	res.Status = p.Status

	if p.Status.IsTerminal() {
		log.Info("[payment][ipn] replay of settled payment", zap.String("status", string(p.Status)))
		res.Code = AckAlreadyConfirmed
		return res, "already_" + strings.ToLower(string(p.Status))
	}

	if ok, reported := amountMatches(cb.Amount, p.Amount); !ok {
		log.Warn("[payment][ipn] amount mismatch", logger.Audit(),
			zap.Int64("expected_amount", p.Amount),
			zap.String("reported_amount", reported),
			zap.Error(errAmountMismatch))
		res.Code = AckInvalidAmount
		return res, "amount_mismatch"
	}

	now := u.now().UTC()
	t := entities.PaymentTransition{
		To:            entities.PaymentStatusFailed,
		TransactionNo: cb.TransactionNo,
		BankCode:      cb.BankCode,
		ResponseCode:  cb.ResponseCode,
		RawIPN:        cb.Raw,
		At:            now,
	}
	if gatewaySucceeded(cb) {
		t.To = entities.PaymentStatusPaid
		t.PaidAt = &now
	}

	updated, applied, err := u.payments.Transition(ctx, p.TxnRef, entities.PaymentStatusPending, t)
	if err != nil {
		log.Error("[payment][ipn] transition failed", zap.String("to", string(t.To)), zap.Error(err))
		res.Code = AckUnknownError
		return res, "storage_error"
	}
	if !applied {
		log.Info("[payment][ipn] lost transition race to a concurrent delivery")
		res.Code = AckAlreadyConfirmed
		return res, "concurrent_delivery"
	}
	res.Status = updated.Status
	res.Applied = true
	log.Info("[payment][ipn] payment transitioned",
		zap.String("status", string(updated.Status)),
		zap.String("transaction_no", updated.TransactionNo))

	if u.coordinator != nil {
		if err := u.coordinator.Apply(ctx, updated); err != nil {
			// the ledger is durable; the gateway still gets its ack
			log.Error("[payment][ipn] side effects incomplete", zap.Error(err))
		}
	}

	res.Code = AckSuccess
	return res, string(updated.Status)
}

func (u *ConfirmationUseCase) record(
	ctx context.Context,
	log *zap.Logger,
	kind entities.GatewayEventKind,
	cb interfaces.GatewayCallback,
	code AckCode,
	reason string,
) {
	if u.events == nil {
		return
	}
	err := u.events.Create(ctx, entities.GatewayEvent{
		Gateway:    u.gateway.Name(),
		Kind:       kind,
		TxnRef:     cb.TxnRef,
		Outcome:    string(code),
		Reason:     reason,
		RawQuery:   cb.Raw,
		ReceivedAt: u.now().UTC(),
	})
	if err != nil {
		log.Warn("[payment][ipn] gateway event not recorded", zap.Error(err))
	}
}

// gatewaySucceeded requires a success response code and, when the gateway
// sends one, a success transaction status.
func gatewaySucceeded(cb interfaces.GatewayCallback) bool {
	if cb.ResponseCode != gatewaySuccessCode {
		return false
	}
	return cb.TransactionStatus == "" || cb.TransactionStatus == gatewaySuccessCode
}

// amountMatches compares the wire amount (x100) with the ledger amount.
func amountMatches(raw string, expected int64) (bool, string) {
	reported, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return false, raw
	}
	reported = reported.Div(decimal.NewFromInt(100))
	diff := reported.Sub(decimal.NewFromInt(expected)).Abs()
	return diff.LessThanOrEqual(decimal.RequireFromString(amountEpsilon)), reported.String()
}
