package accessgate

import (
	"log/slog"
	"time"

	httpadapter "lawdesk/contexts/identity-access/access-gate/adapters/http"
	"lawdesk/contexts/identity-access/access-gate/application/commands"
	"lawdesk/contexts/identity-access/access-gate/application/queries"
	"lawdesk/contexts/identity-access/access-gate/application/workers"
	"lawdesk/contexts/identity-access/access-gate/domain/services"
	"lawdesk/contexts/identity-access/access-gate/ports"
)

// Module is the access-gate composition root exposed to runtime wiring.
type Module struct {
	Handler          httpadapter.Handler
	ActiveContext    queries.ActiveContextUseCase
	CheckPermission  queries.CheckPermissionUseCase
	CheckRateLimit   commands.CheckRateLimitUseCase
	EnforceRateLimit commands.EnforceRateLimitUseCase
	WindowSweeper    workers.WindowSweeper
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Members       ports.MembershipRepository
	RateLimits    ports.RateLimitStore
	Table         *services.CapabilityTable
	Clock         ports.Clock
	SweepInterval time.Duration
	Logger        *slog.Logger
}

// NewModule wires the capability resolver and rate limiter using explicit
// ports. The capability table defaults to the shipped configuration.
func NewModule(deps Dependencies) Module {
	table := deps.Table
	if table == nil {
		table = services.DefaultCapabilityTable()
	}

	activeContext := queries.ActiveContextUseCase{
		Members: deps.Members,
		Logger:  deps.Logger,
	}
	checkPermission := queries.CheckPermissionUseCase{
		Table:  table,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	checkRateLimit := commands.CheckRateLimitUseCase{
		Store:  deps.RateLimits,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	enforceRateLimit := commands.EnforceRateLimitUseCase{
		CheckRateLimit: checkRateLimit,
		Logger:         deps.Logger,
	}
	sweeper := workers.WindowSweeper{
		Store:    deps.RateLimits,
		Clock:    deps.Clock,
		Interval: deps.SweepInterval,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CheckPermission: checkPermission,
			Logger:          deps.Logger,
		},
		ActiveContext:    activeContext,
		CheckPermission:  checkPermission,
		CheckRateLimit:   checkRateLimit,
		EnforceRateLimit: enforceRateLimit,
		WindowSweeper:    sweeper,
	}
}
