package entities

import (
	"errors"
	"time"
)

var ErrIllegalTransition = errors.New("illegal payment status transition")

// PaymentStatus is the ledger state of one gateway transaction attempt.
//
// Legal transitions:
//   - PENDING -> PAID | FAILED | CANCELLED
//   - PAID -> REFUNDED (out-of-band refund flow)
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// IsTerminal reports whether a confirmation may no longer change the payment.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusPaid || next == PaymentStatusFailed || next == PaymentStatusCancelled
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	}
	return false
}

type Gateway string

const (
	GatewayVNPay Gateway = "vnpay"
)

// Payment is one row per gateway transaction attempt, keyed by TxnRef.
//
// Storage model (DynamoDB):
//   - PK: txn_ref
//   - GSI (status-expire_at-index): status, expire_at
//
// RawReturn and RawIPN keep the gateway payloads as received, for audit.
type Payment struct {
	TxnRef        string        `json:"txn_ref"`
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	Gateway       Gateway       `json:"gateway"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	TransactionNo string        `json:"transaction_no,omitempty"`
	BankCode      string        `json:"bank_code,omitempty"`
	ResponseCode  string        `json:"response_code,omitempty"`
	RawReturn     string        `json:"raw_return,omitempty"`
	RawIPN        string        `json:"raw_ipn,omitempty"`
	ClientIP      string        `json:"client_ip,omitempty"`
	OrderInfo     string        `json:"order_info,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	ExpireAt      time.Time     `json:"expire_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	RefundedAt    *time.Time    `json:"refunded_at,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PaymentTransition carries the fields written together with a status change.
type PaymentTransition struct {
	To            PaymentStatus
	TransactionNo string
	BankCode      string
	ResponseCode  string
	RawIPN        string
	PaidAt        *time.Time
	RefundedAt    *time.Time
	At            time.Time
}
