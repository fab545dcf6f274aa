package entities

import "time"

// PaymentSettledEvent is published once per payment transition into a
// terminal state.
type PaymentSettledEvent struct {
	TxnRef         string        `json:"txn_ref"`
	OrderID        string        `json:"order_id"`
	UserID         string        `json:"user_id"`
	Purpose        Purpose       `json:"purpose"`
	TargetID       string        `json:"target_id"`
	Status         PaymentStatus `json:"status"`
	Amount         int64         `json:"amount"`
	Currency       string        `json:"currency"`
	BillID         string        `json:"bill_id,omitempty"`
	SubscriptionID string        `json:"subscription_id,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}
