package httptransport

import "time"

// CheckPermissionRequest is the request body for one capability evaluation.
type CheckPermissionRequest struct {
	Permission string `json:"permission"`
}

// CheckPermissionResponse describes one capability decision.
type CheckPermissionResponse struct {
	TenantID   string    `json:"tenant_id"`
	UserID     string    `json:"user_id"`
	Permission string    `json:"permission"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason"`
	CheckedAt  time.Time `json:"checked_at"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
