package entities

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatusFor mirrors the terminal outcome of the order's payment.
func OrderStatusFor(s PaymentStatus) OrderStatus {
	switch s {
	case PaymentStatusPaid:
		return OrderStatusPaid
	case PaymentStatusFailed:
		return OrderStatusFailed
	case PaymentStatusCancelled:
		return OrderStatusCancelled
	}
	return OrderStatusPending
}

// Order is the purchase intent behind a payment. Its ID is the payment TxnRef.
type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Purpose        Purpose     `json:"purpose"`
	TargetID       string      `json:"target_id"`
	Amount         int64       `json:"amount"`
	Currency       string      `json:"currency"`
	BillID         string      `json:"bill_id"`
	SubscriptionID string      `json:"subscription_id,omitempty"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
