package entities

import "time"

type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusCompleted BillStatus = "completed"
	BillStatusFailed    BillStatus = "failed"
)

// Bill is the billing record of a purchase. It is correlated to its payment
// through CorrelationKey (the payment TxnRef), not through a foreign key.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (correlation_key-index): correlation_key
type Bill struct {
	ID             string            `json:"id"`
	CorrelationKey string            `json:"correlation_key"`
	UserID         string            `json:"user_id"`
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Description    string            `json:"description"`
	Status         BillStatus        `json:"status"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
