package entities

import (
	"errors"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type BillingInterval string

const (
	BillingIntervalDay   BillingInterval = "day"
	BillingIntervalMonth BillingInterval = "month"
	BillingIntervalYear  BillingInterval = "year"
)

var ErrInvalidBillingCycle = errors.New("invalid billing cycle")

type BillingCycle struct {
	Interval BillingInterval `json:"interval" dynamodbav:"interval"`
	Count    int             `json:"count" dynamodbav:"count"`
}

// Advance returns the end of one cycle starting at start.
func (c BillingCycle) Advance(start time.Time) (time.Time, error) {
	n := c.Count
	if n <= 0 {
		n = 1
	}
	switch c.Interval {
	case BillingIntervalDay:
		return start.AddDate(0, 0, n), nil
	case BillingIntervalMonth:
		return start.AddDate(0, n, 0), nil
	case BillingIntervalYear:
		return start.AddDate(n, 0, 0), nil
	}
	return time.Time{}, ErrInvalidBillingCycle
}

// PlanSnapshot freezes the plan terms at subscription time, so later plan edits
// never change an existing subscription's entitlement.
type PlanSnapshot struct {
	PlanID       string       `json:"plan_id" dynamodbav:"plan_id"`
	Name         string       `json:"name" dynamodbav:"name"`
	Price        int64        `json:"price" dynamodbav:"price"`
	Currency     string       `json:"currency" dynamodbav:"currency"`
	Entitlements []string     `json:"entitlements,omitempty" dynamodbav:"entitlements,omitempty"`
	BillingCycle BillingCycle `json:"billing_cycle" dynamodbav:"billing_cycle"`
}

type Subscription struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	PlanID    string             `json:"plan_id"`
	Status    SubscriptionStatus `json:"status"`
	StartAt   *time.Time         `json:"start_at,omitempty"`
	EndAt     *time.Time         `json:"end_at,omitempty"`
	Snapshot  PlanSnapshot       `json:"snapshot"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ActivationWindow resolves the active window for a subscription paid at
// paidAt. Values already set on the subscription win.
func (s Subscription) ActivationWindow(paidAt time.Time) (time.Time, time.Time, error) {
	start := paidAt
	if s.StartAt != nil && !s.StartAt.IsZero() {
		start = *s.StartAt
	}
	if s.EndAt != nil && !s.EndAt.IsZero() {
		return start, *s.EndAt, nil
	}
	end, err := s.Snapshot.BillingCycle.Advance(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
