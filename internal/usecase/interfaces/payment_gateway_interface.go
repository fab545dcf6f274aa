package interfaces

import (
	"context"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

// IPaymentGateway abstracts the redirect payment provider.
//
// The service uses it to build signed checkout URLs, to verify and decode the
// provider callbacks (IPN and browser return) and to query a transaction when
// a notification never arrived.
type IPaymentGateway interface {
	Name() entities.Gateway
	BuildPaymentURL(req PaymentURLRequest) (string, error)
	ParseCallback(params map[string]string) (GatewayCallback, SignatureCheck)
	QueryTransaction(ctx context.Context, q TransactionQuery) (TransactionQueryResult, error)
}

type PaymentURLRequest struct {
	TxnRef      string
	Amount      int64
	OrderInfo   string
	ClientIP    string
	BankCode    string
	ReturnURL   string
	Locale      string
	CreatedAt   time.Time
	ExpireAfter time.Duration
}

// SignatureCheck is the outcome of verifying a signed parameter set.
type SignatureCheck struct {
	Valid    bool
	Expected string
	Received string
}

// GatewayCallback is the decoded payload of an IPN or return redirect.
// Amount is in the gateway minor unit, exactly as received.
type GatewayCallback struct {
	TxnRef            string
	Amount            string
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
	BankCode          string
	PayDate           string
	OrderInfo         string
	Raw               string
}

// GatewayState is what the provider reports for a queried transaction.
type GatewayState string

const (
	GatewayStatePaid     GatewayState = "paid"
	GatewayStateFailed   GatewayState = "failed"
	GatewayStatePending  GatewayState = "pending"
	GatewayStateNotFound GatewayState = "not_found"
	// GatewayStateUnknown covers timeouts, transport errors and unverifiable
	// answers. It is never read as a negative result.
	GatewayStateUnknown GatewayState = "unknown"
)

type TransactionQuery struct {
	TxnRef          string
	OrderInfo       string
	TransactionDate time.Time
	ClientIP        string
}

type TransactionQueryResult struct {
	State             GatewayState
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
	Amount            string
	BankCode          string
	PayDate           string
	Message           string
	Raw               string
}
