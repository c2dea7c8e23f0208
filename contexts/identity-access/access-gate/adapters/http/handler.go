package httpadapter

import (
	"context"
	"log/slog"

	application "lawdesk/contexts/identity-access/access-gate/application"
	"lawdesk/contexts/identity-access/access-gate/application/queries"
	httptransport "lawdesk/contexts/identity-access/access-gate/transport/http"
	"lawdesk/internal/shared/tenantctx"
)

// Handler maps HTTP DTOs to access-gate queries.
type Handler struct {
	CheckPermission queries.CheckPermissionUseCase
	Logger          *slog.Logger
}

// CheckPermissionHandler godoc
// @Summary Check one capability
// @Description Evaluates a permission key for the authenticated tenant context. Non-throwing: denial is a 200 with allowed=false.
// @Tags access-gate
// @Accept json
// @Produce json
// @Param X-Tenant-Id header string true "Tenant id"
// @Param X-User-Id header string true "User id"
// @Param request body httptransport.CheckPermissionRequest true "Permission to evaluate"
// @Success 200 {object} httptransport.CheckPermissionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/authz/v1/check [post]
func (h Handler) CheckPermissionHandler(
	_ context.Context,
	tc tenantctx.TenantContext,
	request httptransport.CheckPermissionRequest,
) httptransport.CheckPermissionResponse {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("authz check received",
		"event", "gate_http_check_received",
		"module", "identity-access/access-gate",
		"layer", "transport",
		"tenant_id", tc.TenantID,
		"user_id", tc.User.ID,
		"permission", request.Permission,
	)

	decision := h.CheckPermission.Decide(tc, request.Permission)
	return httptransport.CheckPermissionResponse{
		TenantID:   decision.TenantID,
		UserID:     decision.UserID,
		Permission: decision.Permission,
		Allowed:    decision.Allowed,
		Reason:     decision.Reason,
		CheckedAt:  decision.CheckedAt,
	}
}
