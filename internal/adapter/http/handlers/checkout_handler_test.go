package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/handlers/mocks"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/middleware"
	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

// asUser stands in for JWTAuth in handler tests.
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc usecase.ICheckoutUseCase) *gin.Engine {
		r := gin.New()
		r.POST("/v1/checkout", asUser("teacher123", ""), NewCheckoutHandler(uc).Checkout)
		return r
	}
	post := func(r *gin.Engine, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:51000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for name, body := range map[string]string{
		"invalid json":    "{",
		"missing target":  `{"purpose":"PKG"}`,
		"unknown purpose": `{"purpose":"GIFT","target_id":"x"}`,
		"unknown locale":  `{"purpose":"PKG","target_id":"x","locale":"fr"}`,
	} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			w := post(newRouter(mocks.NewMockICheckoutUseCase(ctrl)), body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}

	t.Run("usecase mapped error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		uc.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(usecase.CheckoutResult{}, usecase.ErrPlanInactive)

		w := post(newRouter(uc), `{"purpose":"PKG","target_id":"pkgABC"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		uc.EXPECT().Checkout(gomock.Any(), usecase.CheckoutInput{
			UserID:   "teacher123",
			Purpose:  entities.PurposePackage,
			TargetID: "pkgABC",
			ClientIP: "203.0.113.7",
			BankCode: "NCB",
			Locale:   "en",
		}).Return(usecase.CheckoutResult{
			TxnRef:     "PKG_1700000000000_teacher123_pkgABC",
			PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=PKG_1700000000000_teacher123_pkgABC",
			Amount:     499000,
			Currency:   "VND",
			ExpireAt:   time.Date(2023, 11, 14, 22, 28, 20, 0, time.UTC),
			BillID:     "bill-1",
		}, nil)

		w := post(newRouter(uc), `{"purpose":"package","target_id":"pkgABC","bank_code":"NCB","locale":"EN"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json response: %v", err)
		}
		if body["txn_ref"] != "PKG_1700000000000_teacher123_pkgABC" || body["amount"] != float64(499000) {
			t.Fatalf("unexpected body: %v", body)
		}
	})
}
