package routes

import (
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathCheckout      = "/checkout"
	PathPayments      = "/payments"
	PathAdminPayments = "/admin/payments"
)

func addPaymentRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc, h Handlers) {
	rg.POST(PathCheckout, auth, h.Checkout.Checkout)

	payments := rg.Group(PathPayments)
	{
		// gateway callbacks authenticate by signature, not by token
		payments.GET("/vnpay/ipn", h.VNPay.IPN)
		payments.POST("/vnpay/ipn", h.VNPay.IPN)
		payments.GET("/vnpay/return", h.VNPay.Return)

		payments.GET("/:txn_ref", auth, h.Payment.GetPayment)
	}

	admin := rg.Group(PathAdminPayments, auth, middleware.RequireAdmin())
	{
		admin.POST("/:txn_ref/reconcile", h.AdminPayment.Reconcile)
		admin.POST("/:txn_ref/cancel", h.AdminPayment.Cancel)
		admin.POST("/:txn_ref/refund", h.AdminPayment.Refund)
	}
}
