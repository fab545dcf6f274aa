package entities

import "testing"

func TestPaymentStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusCancelled, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		{PaymentStatusPaid, PaymentStatusRefunded, true},
		{PaymentStatusPaid, PaymentStatusFailed, false},
		{PaymentStatusPaid, PaymentStatusPaid, false},
		{PaymentStatusFailed, PaymentStatusPaid, false},
		{PaymentStatusCancelled, PaymentStatusPaid, false},
		{PaymentStatusRefunded, PaymentStatusPaid, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}

	if PaymentStatusPending.IsTerminal() {
		t.Fatalf("pending must not be terminal")
	}
	for _, s := range []PaymentStatus{PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded} {
		if !s.IsTerminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}

func TestOrderStatusFor(t *testing.T) {
	if OrderStatusFor(PaymentStatusPaid) != OrderStatusPaid ||
		OrderStatusFor(PaymentStatusFailed) != OrderStatusFailed ||
		OrderStatusFor(PaymentStatusCancelled) != OrderStatusCancelled ||
		OrderStatusFor(PaymentStatusPending) != OrderStatusPending {
		t.Fatalf("unexpected order status mapping")
	}
}
