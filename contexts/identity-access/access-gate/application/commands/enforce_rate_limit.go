package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "lawdesk/contexts/identity-access/access-gate/application"
	"lawdesk/contexts/identity-access/access-gate/domain/entities"
	"lawdesk/internal/shared/tenantctx"
)

// DefaultActionRateWindow applies when a gated action does not name one.
const DefaultActionRateWindow = time.Minute

// EnforceRateLimitInput composes a limiter key from the acting identity.
type EnforceRateLimitInput struct {
	Context  tenantctx.TenantContext
	Action   string
	Limit    int
	Window   time.Duration
	ExtraKey string
}

// EnforceRateLimitUseCase is the gate business mutations call. It never
// returns an error: limiter failures degrade to a deny with a generic message
// so callers render every outcome from one shape.
type EnforceRateLimitUseCase struct {
	CheckRateLimit CheckRateLimitUseCase
	Logger         *slog.Logger
}

func (u EnforceRateLimitUseCase) Execute(ctx context.Context, input EnforceRateLimitInput) entities.GateDecision {
	logger := application.ResolveLogger(u.Logger)

	action := strings.TrimSpace(input.Action)
	if action == "" || input.Context.TenantID == "" || input.Context.User.ID == "" {
		return entities.GateDecision{Allowed: false, Error: "request could not be validated"}
	}

	window := input.Window
	if window <= 0 {
		window = DefaultActionRateWindow
	}

	key := action + ":" + input.Context.TenantID + ":" + input.Context.User.ID
	if input.ExtraKey != "" {
		key += ":" + input.ExtraKey
	}

	decision, err := u.CheckRateLimit.Execute(ctx, CheckRateLimitInput{
		Key:    key,
		Limit:  input.Limit,
		Window: window,
	})
	if err != nil {
		logger.Error("action rate limit check failed",
			"event", "gate_action_rate_limit_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"action", action,
			"tenant_id", input.Context.TenantID,
			"user_id", input.Context.User.ID,
			"error", err.Error(),
		)
		return entities.GateDecision{Allowed: false, Error: "system busy, please retry later"}
	}
	if !decision.Allowed {
		logger.Warn("action rate limited",
			"event", "gate_action_rate_limited",
			"module", "identity-access/access-gate",
			"layer", "application",
			"action", action,
			"tenant_id", input.Context.TenantID,
			"user_id", input.Context.User.ID,
			"limit", input.Limit,
			"window_ms", window.Milliseconds(),
			"remaining", decision.Remaining,
		)
		return entities.GateDecision{Allowed: false, Error: "too many requests, please retry later"}
	}
	return entities.GateDecision{Allowed: true}
}
