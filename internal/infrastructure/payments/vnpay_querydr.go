package payments

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	queryCommand            = "querydr"
	queryCodeSuccess        = "00"
	queryCodeNotFound       = "91"
	txnStatusSuccess        = "00"
	txnStatusPending        = "01"
	txnStatusSuspectedFraud = "07"
)

type queryDRRequest struct {
	RequestID       string `json:"vnp_RequestId"`
	Version         string `json:"vnp_Version"`
	Command         string `json:"vnp_Command"`
	TmnCode         string `json:"vnp_TmnCode"`
	TxnRef          string `json:"vnp_TxnRef"`
	OrderInfo       string `json:"vnp_OrderInfo"`
	TransactionDate string `json:"vnp_TransactionDate"`
	CreateDate      string `json:"vnp_CreateDate"`
	IPAddr          string `json:"vnp_IpAddr"`
	SecureHash      string `json:"vnp_SecureHash"`
}

type queryDRResponse struct {
	ResponseID        string `json:"vnp_ResponseId"`
	Command           string `json:"vnp_Command"`
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TmnCode           string `json:"vnp_TmnCode"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	BankCode          string `json:"vnp_BankCode"`
	PayDate           string `json:"vnp_PayDate"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionType   string `json:"vnp_TransactionType"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
	OrderInfo         string `json:"vnp_OrderInfo"`
	PromotionCode     string `json:"vnp_PromotionCode"`
	PromotionAmount   string `json:"vnp_PromotionAmount"`
	SecureHash        string `json:"vnp_SecureHash"`
}

func (r queryDRRequest) canonical() string {
	return strings.Join([]string{
		r.RequestID, r.Version, r.Command, r.TmnCode, r.TxnRef,
		r.TransactionDate, r.CreateDate, r.IPAddr, r.OrderInfo,
	}, "|")
}

func (r queryDRResponse) canonical() string {
	return strings.Join([]string{
		r.ResponseID, r.Command, r.ResponseCode, r.Message, r.TmnCode, r.TxnRef,
		r.Amount, r.BankCode, r.PayDate, r.TransactionNo, r.TransactionType,
		r.TransactionStatus, r.OrderInfo, r.PromotionCode, r.PromotionAmount,
	}, "|")
}

// QueryTransaction asks the gateway for the status of one transaction.
//
// Any transport failure, timeout or response whose signature does not verify
// yields GatewayStateUnknown together with the error. Callers must never read
// unknown as a negative answer.
func (g *VNPayGateway) QueryTransaction(ctx context.Context, q interfaces.TransactionQuery) (interfaces.TransactionQueryResult, error) {
	unknown := interfaces.TransactionQueryResult{State: interfaces.GatewayStateUnknown}

	if strings.TrimSpace(q.TxnRef) == "" {
		return unknown, ErrInvalidPaymentRequest
	}

	ip := q.ClientIP
	if ip == "" {
		ip = g.cfg.ServerIP
	}
	orderInfo := q.OrderInfo
	if orderInfo == "" {
		orderInfo = "Truy van giao dich " + q.TxnRef
	}

	req := queryDRRequest{
		RequestID:       strings.ReplaceAll(uuid.NewString(), "-", ""),
		Version:         g.cfg.Version,
		Command:         queryCommand,
		TmnCode:         g.cfg.TmnCode,
		TxnRef:          q.TxnRef,
		OrderInfo:       orderInfo,
		TransactionDate: g.FormatGatewayTime(q.TransactionDate),
		CreateDate:      g.FormatGatewayTime(time.Now()),
		IPAddr:          ip,
	}
	req.SecureHash = g.signer.Sign(req.canonical())

	resp, err := g.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(g.cfg.QueryURL)
	if err != nil {
		g.log.Warn("[payment][querydr] request failed",
			zap.String("txn_ref", q.TxnRef), zap.Error(err))
		return unknown, ErrGatewayUnavailable
	}
	unknown.Raw = string(resp.Body())
	if resp.IsError() {
		g.log.Warn("[payment][querydr] unexpected http status",
			zap.String("txn_ref", q.TxnRef), zap.Int("status", resp.StatusCode()))
		return unknown, ErrGatewayUnavailable
	}

	var body queryDRResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		g.log.Warn("[payment][querydr] undecodable response",
			zap.String("txn_ref", q.TxnRef), zap.Error(err))
		return unknown, ErrUnverifiableResponse
	}

	if check := g.signer.verifyData(body.canonical(), body.SecureHash); !check.Valid {
		g.log.Warn("[payment][querydr] response signature mismatch",
			zap.String("txn_ref", q.TxnRef))
		return unknown, ErrUnverifiableResponse
	}
	if body.TxnRef != "" && body.TxnRef != q.TxnRef {
		g.log.Warn("[payment][querydr] response for another transaction",
			zap.String("txn_ref", q.TxnRef), zap.String("response_txn_ref", body.TxnRef))
		return unknown, ErrUnverifiableResponse
	}

	return interfaces.TransactionQueryResult{
		State:             classifyQueryResponse(body.ResponseCode, body.TransactionStatus),
		ResponseCode:      body.ResponseCode,
		TransactionStatus: body.TransactionStatus,
		TransactionNo:     body.TransactionNo,
		Amount:            body.Amount,
		BankCode:          body.BankCode,
		PayDate:           body.PayDate,
		Message:           body.Message,
		Raw:               string(resp.Body()),
	}, nil
}

func classifyQueryResponse(responseCode, txnStatus string) interfaces.GatewayState {
	switch responseCode {
	case queryCodeSuccess:
	case queryCodeNotFound:
		return interfaces.GatewayStateNotFound
	default:
		return interfaces.GatewayStateUnknown
	}

	switch txnStatus {
	case txnStatusSuccess:
		return interfaces.GatewayStatePaid
	case txnStatusPending:
		return interfaces.GatewayStatePending
	case txnStatusSuspectedFraud, "":
		return interfaces.GatewayStateUnknown
	default:
		return interfaces.GatewayStateFailed
	}
}
