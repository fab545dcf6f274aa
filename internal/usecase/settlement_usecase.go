package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// billSubscriptionKey is the bill metadata entry naming the subscription
// bought with it.
const billSubscriptionKey = "subscription_id"

var (
	ErrBillMissing         = errors.New("bill missing for payment")
	ErrSubscriptionMissing = errors.New("subscription missing for order")
	ErrOrderMissing        = errors.New("order missing for payment")
)

// ISettlementCoordinator propagates a payment that just reached a new status
// to its order, bill and subscription.
//
// It must be called once per transition actually performed by the caller.
// Every write it makes is guarded by the dependent record's current status,
// so an accidental second call is still harmless.
type ISettlementCoordinator interface {
	Apply(ctx context.Context, p entities.Payment) error
}

type SettlementCoordinator struct {
	orders        interfaces.IOrderRepository
	bills         interfaces.IBillRepository
	subscriptions interfaces.ISubscriptionRepository
	publisher     interfaces.IPaymentEventPublisher
	log           *zap.Logger
	now           func() time.Time
}

var _ ISettlementCoordinator = (*SettlementCoordinator)(nil)

func NewSettlementCoordinator(
	orders interfaces.IOrderRepository,
	bills interfaces.IBillRepository,
	subscriptions interfaces.ISubscriptionRepository,
	publisher interfaces.IPaymentEventPublisher,
	log *zap.Logger,
) *SettlementCoordinator {
	return &SettlementCoordinator{
		orders:        orders,
		bills:         bills,
		subscriptions: subscriptions,
		publisher:     publisher,
		log:           nopIfNil(log),
		now:           time.Now,
	}
}

// Apply never stops at the first failure: each dependent record is attempted
// and the failures are returned joined. The bill is found through the payment
// alone, so an unreadable order never holds it back.
func (c *SettlementCoordinator) Apply(ctx context.Context, p entities.Payment) error {
	log := c.log.With(zap.String("txn_ref", p.TxnRef), zap.String("status", string(p.Status)))

	var errs []error
	order, err := c.orders.GetByID(ctx, p.OrderID)
	if err != nil {
		log.Error("[payment][settlement] load order failed", zap.String("order_id", p.OrderID), zap.Error(err))
		errs = append(errs, err)
	} else if order.ID == "" {
		log.Error("[payment][settlement] inconsistency: order missing", zap.String("order_id", p.OrderID))
		errs = append(errs, ErrOrderMissing)
	}

	switch p.Status {
	case entities.PaymentStatusPaid:
		bill, billErr := c.completeBill(ctx, log, p)
		errs = append(errs, billErr)
		subscriptionID := order.SubscriptionID
		if subscriptionID == "" {
			subscriptionID = bill.Metadata[billSubscriptionKey]
		}
		if subscriptionID != "" {
			errs = append(errs, c.activateSubscription(ctx, log, p, subscriptionID))
		}
		errs = append(errs, c.advanceOrder(ctx, log, p.OrderID, entities.OrderStatusPaid))
	case entities.PaymentStatusFailed, entities.PaymentStatusCancelled:
		errs = append(errs, c.failBill(ctx, log, p))
		errs = append(errs, c.advanceOrder(ctx, log, p.OrderID, entities.OrderStatusFor(p.Status)))
	case entities.PaymentStatusRefunded:
		// refunds are settled out of band; only downstream listeners care
	default:
		return fmt.Errorf("settle payment %s: %w", p.TxnRef, entities.ErrIllegalTransition)
	}

	c.publish(ctx, log, p, order)
	return errors.Join(errs...)
}

func (c *SettlementCoordinator) completeBill(ctx context.Context, log *zap.Logger, p entities.Payment) (entities.Bill, error) {
	bill, err := c.bills.GetByCorrelationKey(ctx, p.TxnRef)
	if err != nil {
		log.Error("[payment][settlement] load bill failed", zap.Error(err))
		return entities.Bill{}, err
	}
	if bill.ID == "" {
		log.Error("[payment][settlement] inconsistency: no bill for confirmed payment", zap.Int64("amount", p.Amount))
		return entities.Bill{}, ErrBillMissing
	}

	at := c.now()
	if p.PaidAt != nil {
		at = *p.PaidAt
	}
	_, applied, err := c.bills.CompleteIfPending(ctx, bill.ID, paymentMetadata(p), at)
	if err != nil {
		log.Error("[payment][settlement] complete bill failed", zap.String("bill_id", bill.ID), zap.Error(err))
		return bill, err
	}
	if !applied {
		log.Info("[payment][settlement] bill already settled", zap.String("bill_id", bill.ID), zap.String("bill_status", string(bill.Status)))
		return bill, nil
	}
	log.Info("[payment][settlement] bill completed", zap.String("bill_id", bill.ID))
	return bill, nil
}

func (c *SettlementCoordinator) failBill(ctx context.Context, log *zap.Logger, p entities.Payment) error {
	bill, err := c.bills.GetByCorrelationKey(ctx, p.TxnRef)
	if err != nil {
		log.Error("[payment][settlement] load bill failed", zap.Error(err))
		return err
	}
	if bill.ID == "" {
		log.Warn("[payment][settlement] inconsistency: no bill for failed payment")
		return nil
	}

	md := paymentMetadata(p)
	md["failure_reason"] = failureReason(p)
	_, applied, err := c.bills.FailIfPending(ctx, bill.ID, md, c.now())
	if err != nil {
		log.Error("[payment][settlement] fail bill failed", zap.String("bill_id", bill.ID), zap.Error(err))
		return err
	}
	if applied {
		log.Info("[payment][settlement] bill marked failed", zap.String("bill_id", bill.ID))
	}
	return nil
}

func (c *SettlementCoordinator) activateSubscription(ctx context.Context, log *zap.Logger, p entities.Payment, id string) error {
	sub, err := c.subscriptions.GetByID(ctx, id)
	if err != nil {
		log.Error("[payment][settlement] load subscription failed", zap.String("subscription_id", id), zap.Error(err))
		return err
	}
	if sub.ID == "" {
		log.Error("[payment][settlement] inconsistency: subscription missing", zap.String("subscription_id", id))
		return ErrSubscriptionMissing
	}
	if sub.Status != entities.SubscriptionStatusPending {
		log.Info("[payment][settlement] subscription already settled", zap.String("subscription_id", id), zap.String("subscription_status", string(sub.Status)))
		return nil
	}

	paidAt := c.now()
	if p.PaidAt != nil {
		paidAt = *p.PaidAt
	}
	start, end, err := sub.ActivationWindow(paidAt)
	if err != nil {
		log.Error("[payment][settlement] subscription window", zap.String("subscription_id", id), zap.Error(err))
		return err
	}

	_, applied, err := c.subscriptions.ActivateIfPending(ctx, id, start, end, c.now())
	if err != nil {
		log.Error("[payment][settlement] activate subscription failed", zap.String("subscription_id", id), zap.Error(err))
		return err
	}
	if applied {
		log.Info("[payment][settlement] subscription activated",
			zap.String("subscription_id", id),
			zap.Time("start_at", start),
			zap.Time("end_at", end))
	}
	return nil
}

// advanceOrder writes by id only; an order that is missing or already settled
// fails the status guard and is left alone.
func (c *SettlementCoordinator) advanceOrder(ctx context.Context, log *zap.Logger, orderID string, status entities.OrderStatus) error {
	if orderID == "" {
		return nil
	}
	_, applied, err := c.orders.UpdateStatusIfPending(ctx, orderID, status)
	if err != nil {
		log.Error("[payment][settlement] update order failed", zap.String("order_id", orderID), zap.Error(err))
		return err
	}
	if !applied {
		log.Info("[payment][settlement] order already settled", zap.String("order_id", orderID))
	}
	return nil
}

// publish is best effort: the ledger is already durable and the event only
// informs downstream listeners.
func (c *SettlementCoordinator) publish(ctx context.Context, log *zap.Logger, p entities.Payment, order entities.Order) {
	if c.publisher == nil {
		return
	}
	evt := entities.PaymentSettledEvent{
		TxnRef:         p.TxnRef,
		OrderID:        p.OrderID,
		UserID:         p.UserID,
		Purpose:        order.Purpose,
		TargetID:       order.TargetID,
		Status:         p.Status,
		Amount:         p.Amount,
		Currency:       p.Currency,
		BillID:         order.BillID,
		SubscriptionID: order.SubscriptionID,
		OccurredAt:     c.now().UTC(),
	}
	if err := c.publisher.PublishPaymentSettled(ctx, evt); err != nil {
		log.Warn("[payment][settlement] publish settled event failed", zap.Error(err))
	}
}

func paymentMetadata(p entities.Payment) map[string]string {
	md := map[string]string{
		"txn_ref":        p.TxnRef,
		"payment_status": string(p.Status),
		"gateway":        string(p.Gateway),
	}
	if p.TransactionNo != "" {
		md["transaction_no"] = p.TransactionNo
	}
	if p.BankCode != "" {
		md["bank_code"] = p.BankCode
	}
	if p.ResponseCode != "" {
		md["response_code"] = p.ResponseCode
	}
	if p.PaidAt != nil {
		md["paid_at"] = p.PaidAt.UTC().Format(time.RFC3339)
	}
	return md
}

func failureReason(p entities.Payment) string {
	if p.Status == entities.PaymentStatusCancelled {
		return "cancelled_after_expiry"
	}
	if p.ResponseCode != "" {
		return "gateway_response_" + p.ResponseCode
	}
	return "gateway_failed"
}
