package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	mock_interfaces "github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestReturnUseCase_Inspect(t *testing.T) {
	t.Run("valid success return never settles", func(t *testing.T) {
		s := newConfirmationScenario(t)
		uc := NewReturnUseCase(s.payments, s.events, newTestGateway(t), nil)

		res, err := uc.Inspect(context.Background(), signedIPN(t, nil))
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if !res.SignatureValid || !res.GatewaySuccess || !res.Found || res.PaymentStatus != entities.PaymentStatusPending || res.Amount != 499000 {
			t.Fatalf("unexpected result: %+v", res)
		}
		p := s.payments.get(exampleTxnRef)
		if p.Status != entities.PaymentStatusPending || s.payments.transitions != 0 {
			t.Fatalf("return must not change the payment status")
		}
		if p.RawReturn == "" {
			t.Fatalf("signed return must be attached for audit")
		}
		if got := s.events.outcomes(); len(got) != 1 || got[0] != "PENDING" {
			t.Fatalf("expected one return event, got %v", got)
		}
	})

	t.Run("first return wins", func(t *testing.T) {
		s := newConfirmationScenario(t)
		uc := NewReturnUseCase(s.payments, nil, newTestGateway(t), nil)

		if _, err := uc.Inspect(context.Background(), signedIPN(t, nil)); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		first := s.payments.get(exampleTxnRef).RawReturn
		if _, err := uc.Inspect(context.Background(), signedIPN(t, map[string]string{"vnp_ResponseCode": "24"})); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if s.payments.get(exampleTxnRef).RawReturn != first {
			t.Fatalf("raw return must not be overwritten")
		}
	})

	t.Run("tampered return", func(t *testing.T) {
		s := newConfirmationScenario(t)
		uc := NewReturnUseCase(s.payments, s.events, newTestGateway(t), nil)
		params := signedIPN(t, nil)
		params["vnp_ResponseCode"] = "00"
		params["vnp_Amount"] = "100"

		res, err := uc.Inspect(context.Background(), params)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if res.SignatureValid || res.GatewaySuccess {
			t.Fatalf("tampered return must not claim success: %+v", res)
		}
		if s.payments.get(exampleTxnRef).RawReturn != "" {
			t.Fatalf("unsigned payload must not be attached")
		}
	})

	t.Run("unknown payment", func(t *testing.T) {
		s := newConfirmationScenario(t)
		uc := NewReturnUseCase(s.payments, s.events, newTestGateway(t), nil)

		res, err := uc.Inspect(context.Background(), signedIPN(t, map[string]string{"vnp_TxnRef": "COURSE_1700000000000_x_y"}))
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if res.Found {
			t.Fatalf("expected not found: %+v", res)
		}
		if got := s.events.outcomes(); len(got) != 1 || got[0] != "00" {
			t.Fatalf("unmatched return is still recorded, got %v", got)
		}
	})

	t.Run("storage error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewReturnUseCase(repo, nil, newTestGateway(t), nil)

		repo.EXPECT().GetByTxnRef(gomock.Any(), exampleTxnRef).Return(entities.Payment{}, errors.New("db"))

		if _, err := uc.Inspect(context.Background(), signedIPN(t, nil)); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}
