package queries

import (
	"context"
	"log/slog"
	"strings"

	application "lawdesk/contexts/realtime-signals/signal-service/application"
	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	domainerrors "lawdesk/contexts/realtime-signals/signal-service/domain/errors"
	"lawdesk/contexts/realtime-signals/signal-service/ports"
)

// GetSignalQuery asks for the current durable row of one (tenant, kind) pair.
type GetSignalQuery struct {
	TenantID string
	Kind     string
}

// GetSignalUseCase reads the durable high-water mark for one pair. Open
// streams poll it so a notification lost on the bus is recovered from the
// repository within one poll interval.
type GetSignalUseCase struct {
	Repo   ports.SignalRepository
	Logger *slog.Logger
}

func (u GetSignalUseCase) Execute(ctx context.Context, query GetSignalQuery) (entities.TenantSignal, bool, error) {
	tenantID := strings.TrimSpace(query.TenantID)
	if tenantID == "" {
		return entities.TenantSignal{}, false, domainerrors.ErrInvalidTenantID
	}
	if !entities.ValidKind(query.Kind) {
		return entities.TenantSignal{}, false, domainerrors.ErrInvalidKind
	}

	signal, found, err := u.Repo.Get(ctx, tenantID, query.Kind)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("signal poll read failed",
			"event", "signal_get_failed",
			"module", "realtime-signals/signal-service",
			"layer", "application",
			"tenant_id", tenantID,
			"kind", query.Kind,
			"error", err.Error(),
		)
		return entities.TenantSignal{}, false, err
	}
	return signal, found, nil
}
