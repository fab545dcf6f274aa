package usecase

import "errors"

var (
	ErrInvalidCheckoutRequest = errors.New("invalid checkout request")
	ErrPlanNotFound           = errors.New("plan not found")
	ErrPlanInactive           = errors.New("plan is not available for purchase")
	ErrCourseNotFound         = errors.New("course not found")
	ErrCourseNotPurchasable   = errors.New("course is not available for purchase")
	ErrInvalidTxnRef          = errors.New("invalid txn_ref")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentNotPending      = errors.New("payment is not pending")
	ErrPaymentNotExpired      = errors.New("payment has not expired yet")
	ErrPaymentNotPaid         = errors.New("payment is not paid")
	ErrCancelNotConfirmed     = errors.New("gateway does not confirm the payment failed")
	ErrGatewayNotConfigured   = errors.New("payment gateway not configured")
)
