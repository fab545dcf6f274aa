package entities

import (
	"errors"
	"testing"
	"time"
)

func TestBillingCycle_Advance(t *testing.T) {
	start := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	end, err := BillingCycle{Interval: BillingIntervalMonth, Count: 1}.Advance(start)
	if err != nil || !end.Equal(start.AddDate(0, 1, 0)) {
		t.Fatalf("unexpected month end: %v %v", end, err)
	}
	end, err = BillingCycle{Interval: BillingIntervalYear}.Advance(start)
	if err != nil || !end.Equal(start.AddDate(1, 0, 0)) {
		t.Fatalf("zero count must default to one cycle: %v %v", end, err)
	}
	end, err = BillingCycle{Interval: BillingIntervalDay, Count: 30}.Advance(start)
	if err != nil || !end.Equal(start.AddDate(0, 0, 30)) {
		t.Fatalf("unexpected day end: %v %v", end, err)
	}
	if _, err := (BillingCycle{Interval: "week"}).Advance(start); !errors.Is(err, ErrInvalidBillingCycle) {
		t.Fatalf("expected ErrInvalidBillingCycle, got %v", err)
	}
}

func TestSubscription_ActivationWindow(t *testing.T) {
	paidAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	sub := Subscription{Snapshot: PlanSnapshot{BillingCycle: BillingCycle{Interval: BillingIntervalMonth, Count: 1}}}

	start, end, err := sub.ActivationWindow(paidAt)
	if err != nil || !start.Equal(paidAt) || !end.Equal(paidAt.AddDate(0, 1, 0)) {
		t.Fatalf("unexpected window: %v %v %v", start, end, err)
	}

	presetStart := paidAt.Add(-time.Hour)
	presetEnd := paidAt.AddDate(0, 6, 0)
	sub.StartAt = &presetStart
	sub.EndAt = &presetEnd
	start, end, err = sub.ActivationWindow(paidAt)
	if err != nil || !start.Equal(presetStart) || !end.Equal(presetEnd) {
		t.Fatalf("preset window must be kept: %v %v %v", start, end, err)
	}
}

func TestPlan_SnapshotIsDetached(t *testing.T) {
	p := Plan{ID: "pkgABC", Name: "Teacher Pro", Price: 499000, Currency: "VND", Entitlements: []string{"courses:20"}}
	snap := p.Snapshot()
	p.Entitlements[0] = "courses:1"
	p.Price = 1

	if snap.Entitlements[0] != "courses:20" || snap.Price != 499000 {
		t.Fatalf("snapshot must not follow plan edits: %+v", snap)
	}
}
