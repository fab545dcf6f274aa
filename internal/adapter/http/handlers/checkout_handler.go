package handlers

import (
	"net/http"

	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/dto/request"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/dto/response"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/middleware"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewCheckoutHandler(uc usecase.ICheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{usecase: uc}
}

// Checkout godoc
// @Summary      Open a gateway checkout
// @Description  Creates a PENDING payment for a package or course and returns the signed gateway URL.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      request.CheckoutRequest  true  "Checkout"
// @Success      201   {object}  response.CheckoutResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Router       /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var payload request.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidCheckoutPayload.HTTPStatus, errInvalidCheckoutPayload.ToHTTPError())
		return
	}
	purpose, err := payload.ResolvePurpose()
	if err != nil {
		c.JSON(errInvalidCheckoutPayload.HTTPStatus, errInvalidCheckoutPayload.ToHTTPError())
		return
	}
	locale, err := payload.ResolveLocale()
	if err != nil {
		c.JSON(errInvalidCheckoutPayload.HTTPStatus, errInvalidCheckoutPayload.ToHTTPError())
		return
	}

	res, err := h.usecase.Checkout(c.Request.Context(), usecase.CheckoutInput{
		UserID:   middleware.UserID(c),
		Purpose:  purpose,
		TargetID: payload.TargetID,
		ClientIP: c.ClientIP(),
		BankCode: payload.BankCode,
		Locale:   locale,
	})
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromCheckoutResult(res))
}
