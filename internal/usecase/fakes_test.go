package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"
)

// The in-memory stores below honour the same status guards as the DynamoDB
// repositories, which is what the idempotence and race tests exercise.

type memPayments struct {
	mu          sync.Mutex
	rows        map[string]entities.Payment
	transitions int
}

func newMemPayments(ps ...entities.Payment) *memPayments {
	m := &memPayments{rows: map[string]entities.Payment{}}
	for _, p := range ps {
		m.rows[p.TxnRef] = p
	}
	return m
}

func (m *memPayments) Create(_ context.Context, p entities.Payment) (entities.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.TxnRef]; ok {
		return entities.Payment{}, interfaces.ErrDuplicateKey
	}
	m.rows[p.TxnRef] = p
	return p, nil
}

func (m *memPayments) GetByTxnRef(_ context.Context, txnRef string) (entities.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[txnRef], nil
}

func (m *memPayments) Transition(_ context.Context, txnRef string, from entities.PaymentStatus, t entities.PaymentTransition) (entities.Payment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[txnRef]
	if !ok || p.Status != from {
		return entities.Payment{}, false, nil
	}
	if !from.CanTransitionTo(t.To) {
		return entities.Payment{}, false, entities.ErrIllegalTransition
	}
	p.Status = t.To
	if t.TransactionNo != "" {
		p.TransactionNo = t.TransactionNo
	}
	if t.BankCode != "" {
		p.BankCode = t.BankCode
	}
	if t.ResponseCode != "" {
		p.ResponseCode = t.ResponseCode
	}
	if t.RawIPN != "" {
		p.RawIPN = t.RawIPN
	}
	if t.PaidAt != nil {
		p.PaidAt = t.PaidAt
	}
	if t.RefundedAt != nil {
		p.RefundedAt = t.RefundedAt
	}
	p.UpdatedAt = t.At
	m.rows[txnRef] = p
	m.transitions++
	return p, true, nil
}

func (m *memPayments) AttachRawReturn(_ context.Context, txnRef string, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[txnRef]
	if ok && p.RawReturn == "" {
		p.RawReturn = raw
		m.rows[txnRef] = p
	}
	return nil
}

func (m *memPayments) ListPendingExpiredBefore(_ context.Context, before time.Time, limit int32) ([]entities.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Payment
	for _, p := range m.rows {
		if p.Status == entities.PaymentStatusPending && p.ExpireAt.Before(before) && int32(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) get(txnRef string) entities.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[txnRef]
}

type memOrders struct {
	mu   sync.Mutex
	rows map[string]entities.Order
}

func newMemOrders(orders ...entities.Order) *memOrders {
	m := &memOrders{rows: map[string]entities.Order{}}
	for _, o := range orders {
		m.rows[o.ID] = o
	}
	return m
}

func (m *memOrders) Create(_ context.Context, o entities.Order) (entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[o.ID]; ok {
		return entities.Order{}, interfaces.ErrDuplicateKey
	}
	m.rows[o.ID] = o
	return o, nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id], nil
}

func (m *memOrders) UpdateStatusIfPending(_ context.Context, id string, status entities.OrderStatus) (entities.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok || o.Status != entities.OrderStatusPending {
		return entities.Order{}, false, nil
	}
	o.Status = status
	m.rows[id] = o
	return o, true, nil
}

// flakyOrders fails the first failReads order reads and then behaves like
// the wrapped store.
type flakyOrders struct {
	*memOrders
	failReads int
}

func (f *flakyOrders) GetByID(ctx context.Context, id string) (entities.Order, error) {
	f.mu.Lock()
	fail := f.failReads > 0
	if fail {
		f.failReads--
	}
	f.mu.Unlock()
	if fail {
		return entities.Order{}, errors.New("throttled")
	}
	return f.memOrders.GetByID(ctx, id)
}

type memBills struct {
	mu          sync.Mutex
	rows        map[string]entities.Bill
	completions int
	failures    int
}

func newMemBills(bs ...entities.Bill) *memBills {
	m := &memBills{rows: map[string]entities.Bill{}}
	for _, b := range bs {
		m.rows[b.ID] = b
	}
	return m
}

func (m *memBills) Create(_ context.Context, b entities.Bill) (entities.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[b.ID] = b
	return b, nil
}

func (m *memBills) GetByCorrelationKey(_ context.Context, key string) (entities.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.CorrelationKey == key {
			return b, nil
		}
	}
	return entities.Bill{}, nil
}

func (m *memBills) CompleteIfPending(_ context.Context, id string, md map[string]string, at time.Time) (entities.Bill, bool, error) {
	return m.settle(id, entities.BillStatusCompleted, md, at)
}

func (m *memBills) FailIfPending(_ context.Context, id string, md map[string]string, at time.Time) (entities.Bill, bool, error) {
	return m.settle(id, entities.BillStatusFailed, md, at)
}

func (m *memBills) settle(id string, status entities.BillStatus, md map[string]string, at time.Time) (entities.Bill, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok || b.Status != entities.BillStatusPending {
		return entities.Bill{}, false, nil
	}
	b.Status = status
	if b.Metadata == nil {
		b.Metadata = map[string]string{}
	}
	for k, v := range md {
		b.Metadata[k] = v
	}
	if status == entities.BillStatusCompleted {
		b.CompletedAt = &at
		m.completions++
	} else {
		m.failures++
	}
	m.rows[id] = b
	return b, true, nil
}

func (m *memBills) get(id string) entities.Bill {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

type memSubscriptions struct {
	mu          sync.Mutex
	rows        map[string]entities.Subscription
	activations int
}

func newMemSubscriptions(ss ...entities.Subscription) *memSubscriptions {
	m := &memSubscriptions{rows: map[string]entities.Subscription{}}
	for _, s := range ss {
		m.rows[s.ID] = s
	}
	return m
}

func (m *memSubscriptions) Create(_ context.Context, s entities.Subscription) (entities.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = s
	return s, nil
}

func (m *memSubscriptions) GetByID(_ context.Context, id string) (entities.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id], nil
}

func (m *memSubscriptions) ActivateIfPending(_ context.Context, id string, startAt, endAt, _ time.Time) (entities.Subscription, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || s.Status != entities.SubscriptionStatusPending {
		return entities.Subscription{}, false, nil
	}
	s.Status = entities.SubscriptionStatusActive
	s.StartAt = &startAt
	s.EndAt = &endAt
	m.rows[id] = s
	m.activations++
	return s, true, nil
}

func (m *memSubscriptions) get(id string) entities.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

type memEvents struct {
	mu   sync.Mutex
	rows []entities.GatewayEvent
}

func (m *memEvents) Create(_ context.Context, e entities.GatewayEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, e)
	return nil
}

func (m *memEvents) outcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e.Outcome)
	}
	return out
}

type memPublisher struct {
	mu     sync.Mutex
	events []entities.PaymentSettledEvent
}

func (m *memPublisher) PublishPaymentSettled(_ context.Context, evt entities.PaymentSettledEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *memPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

var (
	_ interfaces.IPaymentRepository      = (*memPayments)(nil)
	_ interfaces.IOrderRepository        = (*memOrders)(nil)
	_ interfaces.IBillRepository         = (*memBills)(nil)
	_ interfaces.ISubscriptionRepository = (*memSubscriptions)(nil)
	_ interfaces.IGatewayEventRepository = (*memEvents)(nil)
	_ interfaces.IPaymentEventPublisher  = (*memPublisher)(nil)
)
