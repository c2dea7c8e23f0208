package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "lawdesk/contexts/realtime-signals/signal-service/application"
	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	domainerrors "lawdesk/contexts/realtime-signals/signal-service/domain/errors"
	"lawdesk/contexts/realtime-signals/signal-service/ports"
	"lawdesk/internal/platform/metrics"
	"lawdesk/internal/shared/events"

	"github.com/google/uuid"
)

// TouchSignalInput names one signal bump.
type TouchSignalInput struct {
	TenantID string
	Kind     string
	// Payload, when nil, leaves the stored payload untouched.
	Payload json.RawMessage
}

// TouchSignalUseCase durably bumps the per-(tenant, kind) version, then
// notifies the bus. The bus is purely a latency optimization: a publish
// failure is logged and swallowed because reconnecting clients catch up from
// the repository anyway.
//
// Storage failure is returned to the caller, but the documented policy is
// best-effort: a business mutation that already committed must not be rolled
// back or reported failed because its invalidation hint was lost. Gateways
// log the returned error and move on.
type TouchSignalUseCase struct {
	Repo   ports.SignalRepository
	Bus    ports.SignalBus
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u TouchSignalUseCase) Execute(ctx context.Context, input TouchSignalInput) (entities.TenantSignal, error) {
	tenantID := strings.TrimSpace(input.TenantID)
	if tenantID == "" {
		return entities.TenantSignal{}, domainerrors.ErrInvalidTenantID
	}
	if !entities.ValidKind(input.Kind) {
		return entities.TenantSignal{}, domainerrors.ErrInvalidKind
	}

	logger := application.ResolveLogger(u.Logger)
	now := u.now()
	started := time.Now()

	signal, err := u.Repo.Touch(ctx, tenantID, input.Kind, input.Payload, now)
	metrics.SignalTouchDuration.Observe(float64(time.Since(started).Milliseconds()))
	if err != nil {
		logger.Error("signal touch failed",
			"event", "signal_touch_failed",
			"module", "realtime-signals/signal-service",
			"layer", "application",
			"tenant_id", tenantID,
			"kind", input.Kind,
			"error", err.Error(),
		)
		return entities.TenantSignal{}, err
	}

	if u.Bus != nil {
		publishErr := u.Bus.Publish(ctx, events.SignalEnvelope{
			EventID:   uuid.NewString(),
			TenantID:  signal.TenantID,
			Kind:      signal.Kind,
			Version:   signal.Version,
			UpdatedAt: signal.UpdatedAt,
			Payload:   signal.Payload,
		})
		if publishErr != nil {
			logger.Warn("signal publish failed after durable touch",
				"event", "signal_publish_failed",
				"module", "realtime-signals/signal-service",
				"layer", "application",
				"tenant_id", tenantID,
				"kind", input.Kind,
				"version", signal.Version,
				"error", publishErr.Error(),
			)
		}
	}

	logger.Debug("signal touched",
		"event", "signal_touched",
		"module", "realtime-signals/signal-service",
		"layer", "application",
		"tenant_id", tenantID,
		"kind", input.Kind,
		"version", signal.Version,
	)
	return signal, nil
}

func (u TouchSignalUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
