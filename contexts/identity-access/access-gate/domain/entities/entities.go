package entities

import "time"

// Membership statuses mirror the tenant membership lifecycle; only ACTIVE
// memberships grant access.
const (
	MembershipStatusActive    = "ACTIVE"
	MembershipStatusInvited   = "INVITED"
	MembershipStatusSuspended = "SUSPENDED"
)

// User is a staff identity with a firm-wide role.
type User struct {
	ID       string
	Email    string
	Role     string
	IsActive bool
}

// Membership binds a user to one tenant with a workspace role.
type Membership struct {
	TenantID string
	UserID   string
	Role     string
	Status   string
}

// PermissionDecision is the result of one capability evaluation.
type PermissionDecision struct {
	TenantID   string
	UserID     string
	Permission string
	Allowed    bool
	Reason     string
	CheckedAt  time.Time
}

// RateLimitDecision is returned by every rate-limit check. It is always a
// value, never an error: limiters decide, they do not throw.
type RateLimitDecision struct {
	Allowed           bool
	Limit             int
	Remaining         int
	ResetAt           time.Time
	RetryAfterSeconds int
}

// GateDecision is the uniform shape every gated operation hands back to
// callers so denial rendering needs no type switching.
type GateDecision struct {
	Allowed bool
	Error   string
}
