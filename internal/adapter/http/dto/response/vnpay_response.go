package response

import (
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"
)

// IPNResponse is the body the gateway expects back from the IPN endpoint.
// The field names are part of the gateway contract.
type IPNResponse struct {
	RspCode string `json:"RspCode" example:"00"`
	Message string `json:"Message" example:"Confirm Success"`
}

func FromConfirmation(r usecase.ConfirmationResult) IPNResponse {
	return IPNResponse{RspCode: string(r.Code), Message: r.Message()}
}

// ReturnResponse is shown to the browser after the gateway redirect. Status is
// the ledger status, which may still be PENDING when the IPN has not arrived.
type ReturnResponse struct {
	TxnRef         string `json:"txn_ref"`
	SignatureValid bool   `json:"signature_valid"`
	ResponseCode   string `json:"response_code,omitempty"`
	GatewaySuccess bool   `json:"gateway_success"`
	Found          bool   `json:"found"`
	Status         string `json:"status,omitempty"`
	Amount         int64  `json:"amount,omitempty"`
}

func FromReturnResult(r usecase.ReturnResult) ReturnResponse {
	return ReturnResponse{
		TxnRef:         r.TxnRef,
		SignatureValid: r.SignatureValid,
		ResponseCode:   r.ResponseCode,
		GatewaySuccess: r.GatewaySuccess,
		Found:          r.Found,
		Status:         string(r.PaymentStatus),
		Amount:         r.Amount,
	}
}
