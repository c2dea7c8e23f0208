package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "lawdesk/contexts/realtime-signals/signal-service/application"
	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	domainerrors "lawdesk/contexts/realtime-signals/signal-service/domain/errors"
	"lawdesk/contexts/realtime-signals/signal-service/ports"
)

// ReadSinceQuery asks for every signal row a reconnecting client missed.
type ReadSinceQuery struct {
	TenantID string
	// Kind filters to one signal kind; empty means all kinds.
	Kind  string
	Since time.Time
}

// ReadSinceUseCase is the catch-up path: clients call it before subscribing
// live so a disconnect window never produces a gap.
type ReadSinceUseCase struct {
	Repo   ports.SignalRepository
	Logger *slog.Logger
}

func (u ReadSinceUseCase) Execute(ctx context.Context, query ReadSinceQuery) ([]entities.TenantSignal, error) {
	tenantID := strings.TrimSpace(query.TenantID)
	if tenantID == "" {
		return nil, domainerrors.ErrInvalidTenantID
	}
	if query.Kind != "" && !entities.ValidKind(query.Kind) {
		return nil, domainerrors.ErrInvalidKind
	}

	rows, err := u.Repo.ReadSince(ctx, tenantID, query.Kind, query.Since)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("signal catch-up read failed",
			"event", "signal_read_since_failed",
			"module", "realtime-signals/signal-service",
			"layer", "application",
			"tenant_id", tenantID,
			"kind", query.Kind,
			"error", err.Error(),
		)
		return nil, err
	}
	return rows, nil
}
