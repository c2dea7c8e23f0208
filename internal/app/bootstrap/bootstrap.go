package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	accessgate "lawdesk/contexts/identity-access/access-gate"
	gatepostgres "lawdesk/contexts/identity-access/access-gate/adapters/postgres"
	signalservice "lawdesk/contexts/realtime-signals/signal-service"
	signalpostgres "lawdesk/contexts/realtime-signals/signal-service/adapters/postgres"
	"lawdesk/internal/platform/config"
	"lawdesk/internal/platform/db"
	"lawdesk/internal/platform/httpserver"
	"lawdesk/internal/platform/messaging"
	"lawdesk/internal/shared/netguard"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	gate     accessgate.Module
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	gateRepo := gatepostgres.NewRepository(pg.DB, logger)
	gate := accessgate.NewModule(accessgate.Dependencies{
		Members:       gateRepo,
		RateLimits:    gateRepo,
		Clock:         gatepostgres.SystemClock{},
		SweepInterval: cfg.RateWindowSweepEvery,
		Logger:        logger,
	})

	bus := messaging.NewBus(logger)
	signalRepo := signalpostgres.NewRepository(pg.DB, logger)
	signals := signalservice.NewModule(signalservice.Dependencies{
		Repo:      signalRepo,
		Bus:       bus,
		Inspector: bus,
		Clock:     signalpostgres.SystemClock{},
		Logger:    logger,
	})

	allowlist := netguard.ParseAllowlist(cfg.QueueProcessIPAllowlist)
	if len(allowlist.InvalidEntries) > 0 {
		logger.Warn("queue allowlist entries failed to parse",
			"event", "bootstrap_allowlist_invalid_entries",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"invalid_entries", strings.Join(allowlist.InvalidEntries, ","),
		)
	}

	server := httpserver.New(gate, signals, logger, httpserver.Options{
		Addr:               normalizeAddr(cfg.HTTPPort),
		QueueProcessSecret: cfg.QueueProcessSecret,
		QueueAllowlist:     allowlist,
		Production:         cfg.IsProduction(),
		StreamRateLimit:    cfg.SignalStreamRateLimit,
		StreamRateWindow:   cfg.SignalStreamRateWindow,
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	gateRepo := gatepostgres.NewRepository(pg.DB, logger)
	gate := accessgate.NewModule(accessgate.Dependencies{
		Members:       gateRepo,
		RateLimits:    gateRepo,
		Clock:         gatepostgres.SystemClock{},
		SweepInterval: cfg.RateWindowSweepEvery,
		Logger:        logger,
	})

	return &WorkerApp{
		postgres: pg,
		gate:     gate,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run blocks sweeping expired rate-limit windows until ctx is cancelled.
func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	w.gate.WindowSweeper.Run(ctx)
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
