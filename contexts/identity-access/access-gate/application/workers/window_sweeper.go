package workers

import (
	"context"
	"log/slog"
	"time"

	application "lawdesk/contexts/identity-access/access-gate/application"
	"lawdesk/contexts/identity-access/access-gate/ports"
)

// WindowSweeper periodically removes expired rate-limit window rows. Lazy
// expiry in the limiter keeps decisions correct without it; the sweeper exists
// purely so dead counters do not accumulate.
type WindowSweeper struct {
	Store    ports.RateLimitStore
	Clock    ports.Clock
	Interval time.Duration
	Logger   *slog.Logger
}

// Run sweeps until ctx is cancelled.
func (w WindowSweeper) Run(ctx context.Context) {
	logger := application.ResolveLogger(w.Logger)
	interval := w.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweepOnce(ctx, logger)
		}
	}
}

func (w WindowSweeper) sweepOnce(ctx context.Context, logger *slog.Logger) {
	now := time.Now().UTC()
	if w.Clock != nil {
		now = w.Clock.Now().UTC()
	}
	removed, err := w.Store.DeleteExpired(ctx, now)
	if err != nil {
		logger.Error("rate window sweep failed",
			"event", "gate_window_sweep_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"error", err.Error(),
		)
		return
	}
	if removed > 0 {
		logger.Info("rate windows swept",
			"event", "gate_windows_swept",
			"module", "identity-access/access-gate",
			"layer", "application",
			"removed", removed,
		)
	}
}
