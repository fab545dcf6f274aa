package handlers

import (
	"errors"
	"net/http"

	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"
	"github.com/NMHx2005/lms-backend-sub006/pkg"
)

var (
	errInvalidCheckoutPayload = pkg.NewDomainErrorSimple("INVALID_CHECKOUT_INPUT", "Invalid checkout payload", http.StatusBadRequest)
	errPaymentNotFound        = pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
)

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCheckoutRequest), errors.Is(err, usecase.ErrInvalidTxnRef):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPlanNotFound):
		return pkg.NewDomainErrorSimple("PLAN_NOT_FOUND", "Plan not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCourseNotFound):
		return pkg.NewDomainErrorSimple("COURSE_NOT_FOUND", "Course not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPlanInactive), errors.Is(err, usecase.ErrCourseNotPurchasable):
		return pkg.NewDomainErrorSimple("NOT_PURCHASABLE", "Item is not available for purchase", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return errPaymentNotFound
	case errors.Is(err, usecase.ErrPaymentNotPending):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_PENDING", "Payment is not pending", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotExpired):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_EXPIRED", "Payment has not expired yet", http.StatusConflict)
	case errors.Is(err, usecase.ErrCancelNotConfirmed):
		return pkg.NewDomainErrorSimple("CANCEL_NOT_CONFIRMED", "Gateway does not confirm the payment failed, reconcile first", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotPaid):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_PAID", "Payment is not paid", http.StatusConflict)
	case errors.Is(err, interfaces.ErrDuplicateKey):
		return pkg.NewDomainErrorSimple("CHECKOUT_CONFLICT", "Checkout already in progress, retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrGatewayNotConfigured):
		return pkg.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway unavailable", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
