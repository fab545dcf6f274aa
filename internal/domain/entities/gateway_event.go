package entities

import "time"

type GatewayEventKind string

const (
	GatewayEventIPN     GatewayEventKind = "ipn"
	GatewayEventReturn  GatewayEventKind = "return"
	GatewayEventQueryDR GatewayEventKind = "querydr"
)

// GatewayEvent is the audit row written for each inbound gateway delivery.
type GatewayEvent struct {
	ID         string           `json:"id"`
	Gateway    Gateway          `json:"gateway"`
	Kind       GatewayEventKind `json:"kind"`
	TxnRef     string           `json:"txn_ref"`
	Outcome    string           `json:"outcome"`
	Reason     string           `json:"reason,omitempty"`
	RawQuery   string           `json:"raw_query"`
	ReceivedAt time.Time        `json:"received_at"`
}
