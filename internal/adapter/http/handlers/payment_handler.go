package handlers

import (
	"context"
	"net/http"

	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/dto/response"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/middleware"
	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// GetPayment godoc
// @Summary      Payment status
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        txn_ref  path      string  true  "Transaction reference"
// @Success      200      {object}  response.PaymentResponse
// @Failure      404      {object}  pkg.HTTPError
// @Router       /payments/{txn_ref} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.usecase.GetByTxnRef(c.Request.Context(), c.Param("txn_ref"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	// other users' payments are reported as missing
	if !middleware.IsAdmin(c) && p.UserID != middleware.UserID(c) {
		c.JSON(errPaymentNotFound.HTTPStatus, errPaymentNotFound.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}

// AdminPaymentHandler exposes the operator actions. Routes are mounted behind
// RequireAdmin.
type AdminPaymentHandler struct {
	payments  usecase.IPaymentUseCase
	reconcile usecase.IReconciliationUseCase
}

func NewAdminPaymentHandler(payments usecase.IPaymentUseCase, reconcile usecase.IReconciliationUseCase) *AdminPaymentHandler {
	return &AdminPaymentHandler{payments: payments, reconcile: reconcile}
}

// Reconcile godoc
// @Summary      Query the gateway for one payment
// @Description  Report only. A discrepancy is logged for operators; the ledger is not changed.
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        txn_ref  path      string  true  "Transaction reference"
// @Success      200      {object}  usecase.ReconcileReport
// @Failure      404      {object}  pkg.HTTPError
// @Router       /admin/payments/{txn_ref}/reconcile [post]
func (h *AdminPaymentHandler) Reconcile(c *gin.Context) {
	report, err := h.reconcile.Reconcile(c.Request.Context(), c.Param("txn_ref"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, report)
}

// Cancel godoc
// @Summary      Cancel an expired pending payment
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        txn_ref  path      string  true  "Transaction reference"
// @Success      200      {object}  response.PaymentResponse
// @Failure      409      {object}  pkg.HTTPError
// @Router       /admin/payments/{txn_ref}/cancel [post]
func (h *AdminPaymentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.payments.CancelExpired)
}

// Refund godoc
// @Summary      Record an out of band refund
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        txn_ref  path      string  true  "Transaction reference"
// @Success      200      {object}  response.PaymentResponse
// @Failure      409      {object}  pkg.HTTPError
// @Router       /admin/payments/{txn_ref}/refund [post]
func (h *AdminPaymentHandler) Refund(c *gin.Context) {
	h.transition(c, h.payments.MarkRefunded)
}

func (h *AdminPaymentHandler) transition(c *gin.Context, apply func(ctx context.Context, txnRef string) (entities.Payment, error)) {
	p, err := apply(c.Request.Context(), c.Param("txn_ref"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}
