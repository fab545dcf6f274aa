package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/payments"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"
	mock_interfaces "github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCompareLedger(t *testing.T) {
	cases := []struct {
		name   string
		ledger entities.PaymentStatus
		state  interfaces.GatewayState
		amount string
		want   bool
	}{
		{"pending vs unknown", entities.PaymentStatusPending, interfaces.GatewayStateUnknown, "", false},
		{"pending vs pending", entities.PaymentStatusPending, interfaces.GatewayStatePending, "", false},
		{"pending vs not found", entities.PaymentStatusPending, interfaces.GatewayStateNotFound, "", false},
		{"pending vs paid", entities.PaymentStatusPending, interfaces.GatewayStatePaid, "49900000", true},
		{"pending vs failed", entities.PaymentStatusPending, interfaces.GatewayStateFailed, "", true},
		{"paid vs paid", entities.PaymentStatusPaid, interfaces.GatewayStatePaid, "49900000", false},
		{"paid vs paid other amount", entities.PaymentStatusPaid, interfaces.GatewayStatePaid, "100", true},
		{"paid vs failed", entities.PaymentStatusPaid, interfaces.GatewayStateFailed, "", true},
		{"paid vs not found", entities.PaymentStatusPaid, interfaces.GatewayStateNotFound, "", true},
		{"paid vs unknown", entities.PaymentStatusPaid, interfaces.GatewayStateUnknown, "", false},
		{"failed vs paid", entities.PaymentStatusFailed, interfaces.GatewayStatePaid, "49900000", true},
		{"failed vs failed", entities.PaymentStatusFailed, interfaces.GatewayStateFailed, "", false},
		{"cancelled vs not found", entities.PaymentStatusCancelled, interfaces.GatewayStateNotFound, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, detail := compareLedger(
				entities.Payment{Status: tc.ledger, Amount: 499000},
				interfaces.TransactionQueryResult{State: tc.state, Amount: tc.amount},
			)
			assert.Equal(t, tc.want, got, detail)
			if got {
				assert.NotEmpty(t, detail)
			}
		})
	}
}

func TestReconciliationUseCase_Reconcile(t *testing.T) {
	t.Run("invalid txn ref", func(t *testing.T) {
		uc := NewReconciliationUseCase(nil, nil, nil, ReconciliationOptions{}, nil)
		_, err := uc.Reconcile(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrInvalidTxnRef)
	})

	t.Run("payment not found", func(t *testing.T) {
		uc := NewReconciliationUseCase(newMemPayments(), nil, nil, ReconciliationOptions{}, nil)
		_, err := uc.Reconcile(context.Background(), exampleTxnRef)
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("missed notification is reported, not applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		s := newConfirmationScenario(t)
		uc := NewReconciliationUseCase(s.payments, s.events, gateway, ReconciliationOptions{}, nil)

		gateway.EXPECT().Name().Return(entities.GatewayVNPay).AnyTimes()
		gateway.EXPECT().QueryTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q interfaces.TransactionQuery) (interfaces.TransactionQueryResult, error) {
				assert.Equal(t, exampleTxnRef, q.TxnRef)
				assert.True(t, q.TransactionDate.Equal(exampleCreated))
				return interfaces.TransactionQueryResult{
					State: interfaces.GatewayStatePaid, ResponseCode: "00", TransactionStatus: "00",
					Amount: "49900000", TransactionNo: "14226112", Raw: "{}",
				}, nil
			})

		report, err := uc.Reconcile(context.Background(), exampleTxnRef)
		require.NoError(t, err)
		assert.True(t, report.Discrepancy)
		assert.Equal(t, entities.PaymentStatusPending, report.LedgerStatus)
		assert.Equal(t, interfaces.GatewayStatePaid, report.GatewayState)
		assert.Equal(t, "14226112", report.GatewayTxnNo)
		assert.Equal(t, entities.PaymentStatusPending, s.payments.get(exampleTxnRef).Status)
		assert.Zero(t, s.payments.transitions)
		assert.Equal(t, []string{"discrepancy"}, s.events.outcomes())
	})

	t.Run("gateway error is unknown", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		s := newConfirmationScenario(t)
		uc := NewReconciliationUseCase(s.payments, nil, gateway, ReconciliationOptions{}, nil)

		gateway.EXPECT().QueryTransaction(gomock.Any(), gomock.Any()).
			Return(interfaces.TransactionQueryResult{State: interfaces.GatewayStateFailed}, payments.ErrGatewayUnavailable)

		report, err := uc.Reconcile(context.Background(), exampleTxnRef)
		require.NoError(t, err)
		assert.Equal(t, interfaces.GatewayStateUnknown, report.GatewayState)
		assert.False(t, report.Discrepancy)
		assert.Contains(t, report.Detail, payments.ErrGatewayUnavailable.Error())
	})
}

func TestReconciliationUseCase_SweepExpired(t *testing.T) {
	now := exampleCreated.Add(time.Hour)
	expired := func(ref string, expireAt time.Time) entities.Payment {
		return entities.Payment{TxnRef: ref, Amount: 1000, Status: entities.PaymentStatusPending, CreatedAt: exampleCreated, ExpireAt: expireAt}
	}

	t.Run("only expired pending payments past grace", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		store := newMemPayments(
			expired("COURSE_1700000000000_a_c1", now.Add(-30*time.Minute)),
			expired("COURSE_1700000000001_b_c1", now.Add(-40*time.Minute)),
			expired("COURSE_1700000000002_c_c1", now.Add(-2*time.Minute)),
			entities.Payment{TxnRef: "COURSE_1700000000003_d_c1", Status: entities.PaymentStatusPaid, ExpireAt: now.Add(-time.Hour)},
		)
		uc := NewReconciliationUseCase(store, nil, gateway, ReconciliationOptions{Grace: 5 * time.Minute, BatchSize: 10}, nil)
		uc.now = func() time.Time { return now }

		gateway.EXPECT().QueryTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q interfaces.TransactionQuery) (interfaces.TransactionQueryResult, error) {
				if q.TxnRef == "COURSE_1700000000000_a_c1" {
					return interfaces.TransactionQueryResult{State: interfaces.GatewayStateFailed, ResponseCode: "00", TransactionStatus: "02"}, nil
				}
				return interfaces.TransactionQueryResult{}, errors.New("timeout")
			}).Times(2)

		sum, err := uc.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Checked)
		assert.Equal(t, 1, sum.Discrepancies)
		assert.Equal(t, 1, sum.Unknown)
		assert.Len(t, sum.Reports, 2)
	})

	t.Run("list fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewReconciliationUseCase(repo, nil, nil, ReconciliationOptions{Grace: time.Minute}, nil)
		uc.now = func() time.Time { return now }

		repo.EXPECT().ListPendingExpiredBefore(gomock.Any(), now.Add(-time.Minute), int32(50)).Return(nil, errors.New("db"))

		_, err := uc.SweepExpired(context.Background())
		assert.EqualError(t, err, "db")
	})

	t.Run("cancelled context stops the sweep", func(t *testing.T) {
		store := newMemPayments(expired("COURSE_1700000000000_a_c1", now.Add(-time.Hour)))
		uc := NewReconciliationUseCase(store, nil, nil, ReconciliationOptions{}, nil)
		uc.now = func() time.Time { return now }
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sum, err := uc.SweepExpired(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, sum.Checked)
	})
}
