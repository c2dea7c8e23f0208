package queries

import (
	"context"
	"log/slog"
	"strings"

	application "lawdesk/contexts/identity-access/access-gate/application"
	"lawdesk/contexts/identity-access/access-gate/domain/entities"
	domainerrors "lawdesk/contexts/identity-access/access-gate/domain/errors"
	"lawdesk/contexts/identity-access/access-gate/ports"
	"lawdesk/internal/shared/tenantctx"
)

// ActiveContextUseCase resolves and verifies the tenant identity of a request.
type ActiveContextUseCase struct {
	Members ports.MembershipRepository
	Logger  *slog.Logger
}

// Establish loads the user and membership for an authenticated identity and
// builds the immutable TenantContext the rest of the request runs under.
// Inactive users and missing or non-ACTIVE memberships are authorization
// failures, never silently downgraded.
func (u ActiveContextUseCase) Establish(ctx context.Context, tenantID, userID string) (tenantctx.TenantContext, error) {
	tenantID = strings.TrimSpace(tenantID)
	userID = strings.TrimSpace(userID)
	if tenantID == "" {
		return tenantctx.TenantContext{}, domainerrors.ErrInvalidTenantID
	}
	if userID == "" {
		return tenantctx.TenantContext{}, domainerrors.ErrInvalidUserID
	}

	logger := application.ResolveLogger(u.Logger)

	user, found, err := u.Members.GetUser(ctx, userID)
	if err != nil {
		logger.Error("user lookup failed, deny by default",
			"event", "gate_user_lookup_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err.Error(),
		)
		return tenantctx.TenantContext{}, domainerrors.NewAuthError()
	}
	if !found || !user.IsActive {
		return tenantctx.TenantContext{}, domainerrors.NewAuthError()
	}

	membership, found, err := u.Members.GetMembership(ctx, tenantID, userID)
	if err != nil {
		logger.Error("membership lookup failed, deny by default",
			"event", "gate_membership_lookup_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err.Error(),
		)
		return tenantctx.TenantContext{}, domainerrors.NewPermissionError(
			"membership lookup failed", "no access to this workspace")
	}
	if !found || membership.Status != entities.MembershipStatusActive {
		return tenantctx.TenantContext{}, domainerrors.NewPermissionError(
			"no active membership for tenant "+tenantID,
			"no access to this workspace",
		)
	}

	return tenantctx.TenantContext{
		TenantID:       tenantID,
		User:           tenantctx.User{ID: user.ID, Role: user.Role},
		MembershipRole: membership.Role,
	}, nil
}

// Resolve returns the tenant context already attached to ctx. Absence is an
// AuthError: dependent components never fall back to a default tenant.
func (u ActiveContextUseCase) Resolve(ctx context.Context) (tenantctx.TenantContext, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return tenantctx.TenantContext{}, domainerrors.NewAuthError()
	}
	return tc, nil
}
