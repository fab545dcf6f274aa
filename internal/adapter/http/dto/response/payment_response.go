package response

import (
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

// PaymentResponse is the client view of a ledger row. Raw gateway payloads
// stay server side.
type PaymentResponse struct {
	TxnRef        string     `json:"txn_ref"`
	OrderID       string     `json:"order_id"`
	UserID        string     `json:"user_id"`
	Gateway       string     `json:"gateway"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status" example:"PAID"`
	TransactionNo string     `json:"transaction_no,omitempty"`
	BankCode      string     `json:"bank_code,omitempty"`
	ResponseCode  string     `json:"response_code,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpireAt      time.Time  `json:"expire_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		TxnRef:        p.TxnRef,
		OrderID:       p.OrderID,
		UserID:        p.UserID,
		Gateway:       string(p.Gateway),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		TransactionNo: p.TransactionNo,
		BankCode:      p.BankCode,
		ResponseCode:  p.ResponseCode,
		CreatedAt:     p.CreatedAt,
		ExpireAt:      p.ExpireAt,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
	}
}
