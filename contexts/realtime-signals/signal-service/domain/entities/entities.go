package entities

import (
	"encoding/json"
	"time"
)

// Signal kinds enumerate the categories of "something changed" clients can
// subscribe to. The set is finite; unknown kinds are rejected at the edge.
const (
	KindTasksChanged   = "TASKS_CHANGED"
	KindCasesChanged   = "CASES_CHANGED"
	KindUploadsChanged = "UPLOADS_CHANGED"
	KindQueueChanged   = "QUEUE_CHANGED"
)

// AllKinds lists every signal kind, used when a subscription carries no filter.
func AllKinds() []string {
	return []string{KindTasksChanged, KindCasesChanged, KindUploadsChanged, KindQueueChanged}
}

// ValidKind reports whether kind is part of the enumeration.
func ValidKind(kind string) bool {
	switch kind {
	case KindTasksChanged, KindCasesChanged, KindUploadsChanged, KindQueueChanged:
		return true
	}
	return false
}

// TenantSignal is the durable latest-value record for one (tenant, kind)
// pair. Version increases by exactly 1 on every successful touch and never
// regresses; UpdatedAt is non-decreasing. Rows are never deleted in normal
// operation.
type TenantSignal struct {
	TenantID  string
	Kind      string
	Version   uint64
	UpdatedAt time.Time
	Payload   json.RawMessage
}
