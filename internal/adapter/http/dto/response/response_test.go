package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"
)

func TestFromPayment_HidesRawPayloads(t *testing.T) {
	paidAt := time.Date(2023, 11, 14, 22, 18, 20, 0, time.UTC)
	resp := FromPayment(entities.Payment{
		TxnRef:    "PKG_1700000000000_teacher123_pkgABC",
		Amount:    499000,
		Status:    entities.PaymentStatusPaid,
		RawIPN:    "vnp_SecureHash=abc",
		RawReturn: "vnp_SecureHash=def",
		PaidAt:    &paidAt,
	})

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "PAID" || body["amount"] != float64(499000) {
		t.Fatalf("unexpected body: %v", body)
	}
	for _, k := range []string{"raw_ipn", "raw_return", "refunded_at"} {
		if _, ok := body[k]; ok {
			t.Fatalf("%s must not be exposed", k)
		}
	}
}

func TestFromConfirmation(t *testing.T) {
	raw, err := json.Marshal(FromConfirmation(usecase.ConfirmationResult{Code: usecase.AckInvalidSignature}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"RspCode":"97","Message":"Invalid signature"}` {
		t.Fatalf("unexpected ipn body: %s", raw)
	}
}

func TestFromReturnResult(t *testing.T) {
	resp := FromReturnResult(usecase.ReturnResult{
		TxnRef: "COURSE_1_a_b", SignatureValid: true, ResponseCode: "00", GatewaySuccess: true,
		Found: true, PaymentStatus: entities.PaymentStatusPending, Amount: 1000,
	})
	if resp.Status != "PENDING" || !resp.GatewaySuccess || resp.Amount != 1000 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
