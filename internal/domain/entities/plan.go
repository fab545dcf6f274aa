package entities

// Plan is the subscription catalog entry. The catalog is maintained outside
// this service; checkout only reads it to build a PlanSnapshot.
type Plan struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Price        int64        `json:"price"`
	Currency     string       `json:"currency"`
	Entitlements []string     `json:"entitlements,omitempty"`
	BillingCycle BillingCycle `json:"billing_cycle"`
	Active       bool         `json:"active"`
}

func (p Plan) Snapshot() PlanSnapshot {
	ent := make([]string, len(p.Entitlements))
	copy(ent, p.Entitlements)
	return PlanSnapshot{
		PlanID:       p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Currency:     p.Currency,
		Entitlements: ent,
		BillingCycle: p.BillingCycle,
	}
}
