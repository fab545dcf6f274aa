package payments

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/config"
	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const vnpTimeLayout = "20060102150405"

var (
	ErrInvalidPaymentRequest = errors.New("invalid vnpay payment request")
	ErrMissingTmnCode        = errors.New("missing vnpay tmn code")
	ErrGatewayUnavailable    = errors.New("vnpay query endpoint unavailable")
	ErrUnverifiableResponse  = errors.New("vnpay query response could not be verified")
)

// VNPayGateway builds checkout URLs, decodes callbacks and queries
// transactions against VNPay. It holds only its injected configuration.
type VNPayGateway struct {
	cfg    config.VNPayConfig
	signer *VNPaySigner
	zone   *time.Location
	http   *resty.Client
	log    *zap.Logger
}

var _ interfaces.IPaymentGateway = (*VNPayGateway)(nil)

func NewVNPayGateway(cfg config.VNPayConfig, log *zap.Logger) (*VNPayGateway, error) {
	signer, err := NewVNPaySigner(cfg.HashSecret)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.TmnCode) == "" {
		return nil, ErrMissingTmnCode
	}
	if cfg.ExpireAfter <= 0 {
		cfg.ExpireAfter = 15 * time.Minute
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := resty.New()
	httpClient.SetTimeout(cfg.QueryTimeout)

	return &VNPayGateway{
		cfg:    cfg,
		signer: signer,
		zone:   GatewayZone(cfg.UTCOffset),
		http:   httpClient,
		log:    log,
	}, nil
}

// GatewayZone is the fixed offset zone the gateway stamps its times in.
func GatewayZone(offset time.Duration) *time.Location {
	secs := int(offset / time.Second)
	sign := "+"
	if secs < 0 {
		sign = "-"
	}
	return time.FixedZone(fmt.Sprintf("GMT%s%d", sign, abs(secs)/3600), secs)
}

// FormatGatewayTime renders t in the gateway zone regardless of the host zone.
func (g *VNPayGateway) FormatGatewayTime(t time.Time) string {
	return t.In(g.zone).Format(vnpTimeLayout)
}

func (g *VNPayGateway) Name() entities.Gateway { return entities.GatewayVNPay }

// BuildPaymentURL assembles and signs the redirect parameters for one payment.
func (g *VNPayGateway) BuildPaymentURL(req interfaces.PaymentURLRequest) (string, error) {
	if strings.TrimSpace(req.TxnRef) == "" || req.Amount <= 0 || strings.TrimSpace(req.ClientIP) == "" {
		return "", ErrInvalidPaymentRequest
	}

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	expireAfter := req.ExpireAfter
	if expireAfter <= 0 {
		expireAfter = g.cfg.ExpireAfter
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.cfg.ReturnURL
	}
	locale := req.Locale
	if locale == "" {
		locale = g.cfg.Locale
	}
	orderInfo := req.OrderInfo
	if strings.TrimSpace(orderInfo) == "" {
		orderInfo = "Thanh toan don hang " + req.TxnRef
	}

	params := map[string]string{
		"vnp_Version":    g.cfg.Version,
		"vnp_Command":    "pay",
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_Amount":     ToMinorUnits(req.Amount),
		"vnp_CurrCode":   g.cfg.CurrCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  g.cfg.OrderType,
		"vnp_Locale":     locale,
		"vnp_ReturnUrl":  returnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": g.FormatGatewayTime(createdAt),
		"vnp_ExpireDate": g.FormatGatewayTime(createdAt.Add(expireAfter)),
	}
	if code := strings.TrimSpace(req.BankCode); code != "" {
		params["vnp_BankCode"] = code
	}

	query := Canonicalize(params)
	signature := g.signer.Sign(query)

	g.log.Debug("[payment][gateway] payment url built",
		zap.String("txn_ref", req.TxnRef),
		zap.Int64("amount", req.Amount),
		zap.String("expire_date", params["vnp_ExpireDate"]))

	return g.cfg.PayURL + "?" + query + "&" + vnpSecureHash + "=" + url.QueryEscape(signature), nil
}

// ParseCallback verifies and decodes an IPN or return redirect parameter set.
func (g *VNPayGateway) ParseCallback(params map[string]string) (interfaces.GatewayCallback, interfaces.SignatureCheck) {
	check := g.signer.Verify(params)
	cb := interfaces.GatewayCallback{
		TxnRef:            strings.TrimSpace(params["vnp_TxnRef"]),
		Amount:            strings.TrimSpace(params["vnp_Amount"]),
		ResponseCode:      strings.TrimSpace(params["vnp_ResponseCode"]),
		TransactionStatus: strings.TrimSpace(params["vnp_TransactionStatus"]),
		TransactionNo:     strings.TrimSpace(params["vnp_TransactionNo"]),
		BankCode:          strings.TrimSpace(params["vnp_BankCode"]),
		PayDate:           strings.TrimSpace(params["vnp_PayDate"]),
		OrderInfo:         params["vnp_OrderInfo"],
		Raw:               rawParams(params),
	}
	return cb, check
}

// ToMinorUnits converts an amount to the gateway representation (x100).
func ToMinorUnits(amount int64) string {
	return decimal.NewFromInt(amount).Mul(decimal.NewFromInt(100)).String()
}

// FromMinorUnits converts a gateway amount back to the ledger unit.
func FromMinorUnits(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	return d.Div(decimal.NewFromInt(100)), nil
}

// rawParams keeps every received parameter, signature included, for audit.
func rawParams(params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		v.Set(k, val)
	}
	return v.Encode()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
