package events

import (
	"encoding/json"
	"time"
)

// SignalEnvelope is the canonical event shape carried on the in-process signal
// bus and written to realtime streams. Version and UpdatedAt always reflect the
// durable tenant_signals row the event was committed as.
type SignalEnvelope struct {
	EventID   string          `json:"event_id"`
	TenantID  string          `json:"tenantId"`
	Kind      string          `json:"kind"`
	Version   uint64          `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
