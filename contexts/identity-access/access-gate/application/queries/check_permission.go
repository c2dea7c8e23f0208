package queries

import (
	"log/slog"
	"time"

	application "lawdesk/contexts/identity-access/access-gate/application"
	"lawdesk/contexts/identity-access/access-gate/domain/entities"
	domainerrors "lawdesk/contexts/identity-access/access-gate/domain/errors"
	"lawdesk/contexts/identity-access/access-gate/domain/services"
	"lawdesk/internal/shared/tenantctx"
)

// CheckPermissionUseCase evaluates capability questions against the loaded
// table. Pure: no I/O, no mutation, safe for concurrent calls.
type CheckPermissionUseCase struct {
	Table  *services.CapabilityTable
	Clock  interface{ Now() time.Time }
	Logger *slog.Logger
}

// Has is the non-throwing query form: staff-role grant plus tenant membership
// minimum role, deny on anything unknown.
func (u CheckPermissionUseCase) Has(tc tenantctx.TenantContext, permission string) bool {
	if u.Table == nil || permission == "" {
		return false
	}
	if !u.Table.GrantsPermission(tc.User.Role, permission) {
		return false
	}
	minRole, ok := u.Table.MinMembershipRole(permission)
	if !ok {
		return false
	}
	return u.Table.HasMembershipRole(tc.MembershipRole, minRole)
}

// Require returns a PermissionError carrying the denied key when the check
// fails. The error's public message never exposes the key.
func (u CheckPermissionUseCase) Require(tc tenantctx.TenantContext, permission string) error {
	if u.Has(tc, permission) {
		return nil
	}
	logger := application.ResolveLogger(u.Logger)
	logger.Warn("tenant permission denied",
		"event", "gate_permission_denied",
		"module", "identity-access/access-gate",
		"layer", "application",
		"tenant_id", tc.TenantID,
		"user_id", tc.User.ID,
		"permission", permission,
	)
	return domainerrors.NewPermissionError(
		"missing permission: "+permission,
		"insufficient permission",
	)
}

// Decide wraps Has into the auditable decision record used by the HTTP
// check endpoint.
func (u CheckPermissionUseCase) Decide(tc tenantctx.TenantContext, permission string) entities.PermissionDecision {
	allowed := u.Has(tc, permission)
	reason := "permission_granted"
	if !allowed {
		reason = "permission_missing"
	}
	return entities.PermissionDecision{
		TenantID:   tc.TenantID,
		UserID:     tc.User.ID,
		Permission: permission,
		Allowed:    allowed,
		Reason:     reason,
		CheckedAt:  u.now(),
	}
}

func (u CheckPermissionUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
