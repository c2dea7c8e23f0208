package httptransport

import (
	"encoding/json"
	"time"
)

// SignalEventDTO is the JSON body of one `signal` stream event and of catch-up
// rows returned by the touch/diagnostics endpoints.
type SignalEventDTO struct {
	TenantID  string          `json:"tenantId"`
	Kind      string          `json:"kind"`
	Version   uint64          `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// TouchSignalRequest bumps one (tenant, kind) signal version.
type TouchSignalRequest struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TouchSignalResponse reports the committed version.
type TouchSignalResponse struct {
	Signal SignalEventDTO `json:"signal"`
}

// ChannelReportDTO describes one live bus channel for operators.
type ChannelReportDTO struct {
	TenantID    string `json:"tenant_id"`
	Kind        string `json:"kind"`
	Subscribers int    `json:"subscribers"`
	Version     uint64 `json:"version"`
}

// DiagnosticsResponse lists live channels.
type DiagnosticsResponse struct {
	Channels []ChannelReportDTO `json:"channels"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
