package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ICheckoutUseCase opens a gateway checkout for a package or a course.
//
// The Payment row is persisted as PENDING before the signed URL is returned,
// so an IPN that beats the browser to the gateway still finds its payment.
type ICheckoutUseCase interface {
	Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error)
}

type CheckoutInput struct {
	UserID    string
	Purpose   entities.Purpose
	TargetID  string
	ClientIP  string
	BankCode  string
	ReturnURL string
	Locale    string
}

type CheckoutResult struct {
	TxnRef         string
	PaymentURL     string
	Amount         int64
	Currency       string
	ExpireAt       time.Time
	BillID         string
	SubscriptionID string
}

type CheckoutOptions struct {
	ExpireAfter     time.Duration
	DefaultCurrency string
}

type CheckoutUseCase struct {
	payments      interfaces.IPaymentRepository
	orders        interfaces.IOrderRepository
	bills         interfaces.IBillRepository
	subscriptions interfaces.ISubscriptionRepository
	plans         interfaces.IPlanRepository
	courses       interfaces.ICourseRepository
	gateway       interfaces.IPaymentGateway
	opts          CheckoutOptions
	log           *zap.Logger
	now           func() time.Time
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(
	payments interfaces.IPaymentRepository,
	orders interfaces.IOrderRepository,
	bills interfaces.IBillRepository,
	subscriptions interfaces.ISubscriptionRepository,
	plans interfaces.IPlanRepository,
	courses interfaces.ICourseRepository,
	gateway interfaces.IPaymentGateway,
	opts CheckoutOptions,
	log *zap.Logger,
) *CheckoutUseCase {
	if opts.ExpireAfter <= 0 {
		opts.ExpireAfter = 15 * time.Minute
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "VND"
	}
	return &CheckoutUseCase{
		payments:      payments,
		orders:        orders,
		bills:         bills,
		subscriptions: subscriptions,
		plans:         plans,
		courses:       courses,
		gateway:       gateway,
		opts:          opts,
		log:           nopIfNil(log),
		now:           time.Now,
	}
}

type priced struct {
	amount      int64
	currency    string
	description string
	snapshot    *entities.PlanSnapshot
}

func (u *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.TargetID = strings.TrimSpace(in.TargetID)
	in.ClientIP = strings.TrimSpace(in.ClientIP)
	if in.UserID == "" || in.TargetID == "" || in.ClientIP == "" || !in.Purpose.Valid() {
		return CheckoutResult{}, ErrInvalidCheckoutRequest
	}
	// the owner segment of a txn ref cannot hold the separator
	if strings.Contains(in.UserID, "_") {
		return CheckoutResult{}, fmt.Errorf("%w: user id contains '_'", ErrInvalidCheckoutRequest)
	}
	if u.gateway == nil {
		return CheckoutResult{}, ErrGatewayNotConfigured
	}

	item, err := u.price(ctx, in)
	if err != nil {
		return CheckoutResult{}, err
	}

	now := u.now().UTC()
	txnRef := entities.NewTxnRef(in.Purpose, now, in.UserID, in.TargetID).String()
	expireAt := now.Add(u.opts.ExpireAfter)
	log := u.log.With(zap.String("txn_ref", txnRef), zap.String("user_id", in.UserID))

	paymentURL, err := u.gateway.BuildPaymentURL(interfaces.PaymentURLRequest{
		TxnRef:      txnRef,
		Amount:      item.amount,
		OrderInfo:   item.description,
		ClientIP:    in.ClientIP,
		BankCode:    in.BankCode,
		ReturnURL:   in.ReturnURL,
		Locale:      in.Locale,
		CreatedAt:   now,
		ExpireAfter: u.opts.ExpireAfter,
	})
	if err != nil {
		log.Warn("[payment][checkout] build payment url failed", zap.Error(err))
		return CheckoutResult{}, err
	}

	// The payment is written first so a txn ref collision leaves no rows
	// behind; a later failure cancels it before any URL is handed out.
	payment := entities.Payment{
		TxnRef:    txnRef,
		OrderID:   txnRef,
		UserID:    in.UserID,
		Gateway:   u.gateway.Name(),
		Amount:    item.amount,
		Currency:  item.currency,
		Status:    entities.PaymentStatusPending,
		ClientIP:  in.ClientIP,
		OrderInfo: item.description,
		CreatedAt: now,
		ExpireAt:  expireAt,
		UpdatedAt: now,
	}
	if _, err := u.payments.Create(ctx, payment); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			log.Warn("[payment][checkout] txn ref collision", zap.Error(err))
		} else {
			log.Error("[payment][checkout] create payment failed", zap.Error(err))
		}
		return CheckoutResult{}, err
	}

	var subscriptionID string
	if item.snapshot != nil {
		sub := entities.Subscription{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			PlanID:    item.snapshot.PlanID,
			Status:    entities.SubscriptionStatusPending,
			Snapshot:  *item.snapshot,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := u.subscriptions.Create(ctx, sub); err != nil {
			log.Error("[payment][checkout] create subscription failed", zap.Error(err))
			return CheckoutResult{}, u.abandon(ctx, log, txnRef, err)
		}
		subscriptionID = sub.ID
	}

	bill := entities.Bill{
		ID:             uuid.NewString(),
		CorrelationKey: txnRef,
		UserID:         in.UserID,
		Amount:         item.amount,
		Currency:       item.currency,
		Description:    item.description,
		Status:         entities.BillStatusPending,
		Metadata: map[string]string{
			"purpose":   string(in.Purpose),
			"target_id": in.TargetID,
			"gateway":   string(u.gateway.Name()),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if subscriptionID != "" {
		bill.Metadata[billSubscriptionKey] = subscriptionID
	}
	if _, err := u.bills.Create(ctx, bill); err != nil {
		log.Error("[payment][checkout] create bill failed", zap.Error(err))
		return CheckoutResult{}, u.abandon(ctx, log, txnRef, err)
	}

	order := entities.Order{
		ID:             txnRef,
		UserID:         in.UserID,
		Purpose:        in.Purpose,
		TargetID:       in.TargetID,
		Amount:         item.amount,
		Currency:       item.currency,
		BillID:         bill.ID,
		SubscriptionID: subscriptionID,
		Status:         entities.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := u.orders.Create(ctx, order); err != nil {
		log.Error("[payment][checkout] create order failed", zap.Error(err))
		return CheckoutResult{}, u.abandon(ctx, log, txnRef, err)
	}

	log.Info("[payment][checkout] payment opened",
		zap.Int64("amount", item.amount),
		zap.Time("expire_at", expireAt))

	return CheckoutResult{
		TxnRef:         txnRef,
		PaymentURL:     paymentURL,
		Amount:         item.amount,
		Currency:       item.currency,
		ExpireAt:       expireAt,
		BillID:         bill.ID,
		SubscriptionID: subscriptionID,
	}, nil
}

// abandon cancels a payment whose checkout could not be completed. Rows
// written before the failure stay pending and are never settled.
func (u *CheckoutUseCase) abandon(ctx context.Context, log *zap.Logger, txnRef string, cause error) error {
	_, _, err := u.payments.Transition(ctx, txnRef, entities.PaymentStatusPending, entities.PaymentTransition{
		To: entities.PaymentStatusCancelled,
		At: u.now().UTC(),
	})
	if err != nil {
		log.Error("[payment][checkout] cancel abandoned payment failed", zap.Error(err))
	}
	return cause
}

// price resolves the amount from the catalog; client supplied prices are
// never trusted.
func (u *CheckoutUseCase) price(ctx context.Context, in CheckoutInput) (priced, error) {
	switch in.Purpose {
	case entities.PurposePackage:
		plan, err := u.plans.GetByID(ctx, in.TargetID)
		if err != nil {
			return priced{}, err
		}
		if plan.ID == "" {
			return priced{}, ErrPlanNotFound
		}
		if !plan.Active || plan.Price <= 0 {
			return priced{}, ErrPlanInactive
		}
		snap := plan.Snapshot()
		return priced{
			amount:      plan.Price,
			currency:    u.currencyOr(plan.Currency),
			description: "Thanh toan goi " + plan.Name,
			snapshot:    &snap,
		}, nil
	default:
		course, err := u.courses.GetByID(ctx, in.TargetID)
		if err != nil {
			return priced{}, err
		}
		if course.ID == "" {
			return priced{}, ErrCourseNotFound
		}
		if !course.Published || course.Price <= 0 {
			return priced{}, ErrCourseNotPurchasable
		}
		return priced{
			amount:      course.Price,
			currency:    u.currencyOr(course.Currency),
			description: "Thanh toan khoa hoc " + course.Title,
		}, nil
	}
}

func (u *CheckoutUseCase) currencyOr(c string) string {
	if c == "" {
		return u.opts.DefaultCurrency
	}
	return c
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
