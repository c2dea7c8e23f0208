package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	application "lawdesk/contexts/identity-access/access-gate/application"
	"lawdesk/contexts/identity-access/access-gate/domain/entities"
	domainerrors "lawdesk/contexts/identity-access/access-gate/domain/errors"
	"lawdesk/contexts/identity-access/access-gate/ports"
	"lawdesk/internal/platform/metrics"
)

// CheckRateLimitInput names one admission question.
type CheckRateLimitInput struct {
	Key    string
	Limit  int
	Window time.Duration
}

// CheckRateLimitUseCase is fixed-window admission control: windows are keyed
// by floor(now/window), counters increment atomically in the store, and the
// decision is immediate. Bursts at window boundaries are an accepted,
// documented imprecision of the algorithm, not a defect.
type CheckRateLimitUseCase struct {
	Store  ports.RateLimitStore
	Clock  ports.Clock
	Logger *slog.Logger
}

// Execute never blocks and never throttles by waiting; it returns a decision.
func (u CheckRateLimitUseCase) Execute(ctx context.Context, input CheckRateLimitInput) (entities.RateLimitDecision, error) {
	if strings.TrimSpace(input.Key) == "" {
		return entities.RateLimitDecision{}, domainerrors.ErrInvalidRateKey
	}
	if input.Limit <= 0 || input.Window <= 0 {
		return entities.RateLimitDecision{}, domainerrors.ErrInvalidRateKey
	}

	now := u.now()
	windowMs := input.Window.Milliseconds()
	windowStart := time.UnixMilli(now.UnixMilli() / windowMs * windowMs).UTC()
	resetAt := windowStart.Add(input.Window)
	// Rows stay readable for one extra window so lazy expiry never races an
	// in-flight increment; the sweeper removes them afterwards.
	expiresAt := resetAt.Add(input.Window)

	count, err := u.Store.IncrementWindow(ctx, hashRateKey(input.Key), windowStart, expiresAt)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("rate limit increment failed",
			"event", "gate_rate_limit_store_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.RateLimitDecision{}, err
	}

	allowed := count <= int64(input.Limit)
	remaining := int64(input.Limit) - count
	if remaining < 0 {
		remaining = 0
	}
	retryAfter := 0
	if !allowed {
		retryAfter = int((resetAt.Sub(now) + time.Second - 1) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
	}

	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	metrics.RateLimitDecisions.WithLabelValues(outcome).Inc()

	return entities.RateLimitDecision{
		Allowed:           allowed,
		Limit:             input.Limit,
		Remaining:         int(remaining),
		ResetAt:           resetAt,
		RetryAfterSeconds: retryAfter,
	}, nil
}

func (u CheckRateLimitUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// hashRateKey keeps raw composite keys (which embed user ids) out of storage.
func hashRateKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
