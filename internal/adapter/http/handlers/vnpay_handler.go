package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/dto/response"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VNPayHandler serves the two gateway callbacks. The IPN always answers 200
// with an ack code body; the gateway retries on anything else.
type VNPayHandler struct {
	confirm        usecase.IConfirmationUseCase
	inspect        usecase.IReturnUseCase
	frontendResult string
	log            *zap.Logger
}

func NewVNPayHandler(confirm usecase.IConfirmationUseCase, inspect usecase.IReturnUseCase, frontendResultURL string, log *zap.Logger) *VNPayHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &VNPayHandler{confirm: confirm, inspect: inspect, frontendResult: frontendResultURL, log: log}
}

// IPN godoc
// @Summary      Gateway payment notification
// @Description  Server to server confirmation. Parameters arrive in the query string or a form body.
// @Tags         vnpay
// @Produce      json
// @Success      200  {object}  response.IPNResponse
// @Router       /payments/vnpay/ipn [get]
// @Router       /payments/vnpay/ipn [post]
func (h *VNPayHandler) IPN(c *gin.Context) {
	params := callbackParams(c)
	res := h.confirm.Confirm(c.Request.Context(), params)
	h.log.Info("[payment][handler] ipn answered",
		zap.String("txn_ref", res.TxnRef),
		zap.String("rsp_code", string(res.Code)),
		zap.String("client_ip", c.ClientIP()))
	c.JSON(http.StatusOK, response.FromConfirmation(res))
}

// Return godoc
// @Summary      Browser return from the gateway
// @Description  Display only: reports the ledger status and never settles the payment.
// @Tags         vnpay
// @Produce      json
// @Success      200  {object}  response.ReturnResponse
// @Success      302
// @Router       /payments/vnpay/return [get]
func (h *VNPayHandler) Return(c *gin.Context) {
	res, err := h.inspect.Inspect(c.Request.Context(), callbackParams(c))
	if h.frontendResult != "" {
		c.Redirect(http.StatusFound, h.resultURL(res, err))
		return
	}
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromReturnResult(res))
}

func (h *VNPayHandler) resultURL(res usecase.ReturnResult, err error) string {
	u, perr := url.Parse(h.frontendResult)
	if perr != nil {
		h.log.Warn("[payment][handler] bad frontend result url", zap.Error(perr))
		return h.frontendResult
	}
	status := string(res.PaymentStatus)
	if err != nil || status == "" {
		status = "UNKNOWN"
	}
	q := u.Query()
	q.Set("txn_ref", res.TxnRef)
	q.Set("status", status)
	q.Set("valid", strconv.FormatBool(res.SignatureValid))
	q.Set("code", res.ResponseCode)
	u.RawQuery = q.Encode()
	return u.String()
}

// callbackParams flattens query and form parameters. A key present in the
// query string wins over the form body.
func callbackParams(c *gin.Context) map[string]string {
	out := map[string]string{}
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range c.Request.PostForm {
				if len(v) > 0 {
					out[k] = v[0]
				}
			}
		}
	}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
