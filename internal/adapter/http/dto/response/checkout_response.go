package response

import (
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"
)

type CheckoutResponse struct {
	TxnRef         string    `json:"txn_ref" example:"PKG_1700000000000_teacher123_pkgABC"`
	PaymentURL     string    `json:"payment_url"`
	Amount         int64     `json:"amount" example:"499000"`
	Currency       string    `json:"currency" example:"VND"`
	ExpireAt       time.Time `json:"expire_at"`
	BillID         string    `json:"bill_id"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
}

func FromCheckoutResult(r usecase.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		TxnRef:         r.TxnRef,
		PaymentURL:     r.PaymentURL,
		Amount:         r.Amount,
		Currency:       r.Currency,
		ExpireAt:       r.ExpireAt,
		BillID:         r.BillID,
		SubscriptionID: r.SubscriptionID,
	}
}
