package ports

import (
	"context"
	"encoding/json"
	"time"

	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	"lawdesk/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SignalRepository is the durable source of truth for signal versions. Touch
// must be one atomic upsert-with-increment at the storage layer; a
// read-then-write would lose increments under concurrent touches.
type SignalRepository interface {
	Touch(ctx context.Context, tenantID, kind string, payload json.RawMessage, now time.Time) (entities.TenantSignal, error)
	// ReadSince returns rows with UpdatedAt strictly after since, oldest
	// first. An empty kind means all kinds for the tenant.
	ReadSince(ctx context.Context, tenantID, kind string, since time.Time) ([]entities.TenantSignal, error)
	Get(ctx context.Context, tenantID, kind string) (entities.TenantSignal, bool, error)
}

// SignalBus fans committed signal events out to live subscribers of the exact
// (tenant, kind) pair. It holds no history; the repository supplies catch-up.
type SignalBus interface {
	Publish(ctx context.Context, event events.SignalEnvelope) error
	// Subscribe registers onEvent for the pair and returns an idempotent
	// unsubscribe function, safe to call during an in-flight publish.
	Subscribe(tenantID, kind string, onEvent func(events.SignalEnvelope)) (func(), error)
}

// ChannelDiagnostics describes one live bus channel.
type ChannelDiagnostics struct {
	TenantID    string
	Kind        string
	Subscribers int
}

// BusInspector is implemented by bus implementations that expose their
// channel table for operational diagnostics.
type BusInspector interface {
	Diagnostics() []ChannelDiagnostics
}
