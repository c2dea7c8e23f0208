package signalservice

import (
	"log/slog"

	httpadapter "lawdesk/contexts/realtime-signals/signal-service/adapters/http"
	"lawdesk/contexts/realtime-signals/signal-service/application/commands"
	"lawdesk/contexts/realtime-signals/signal-service/application/queries"
	"lawdesk/contexts/realtime-signals/signal-service/ports"
)

// Module is the signal-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	Touch       commands.TouchSignalUseCase
	ReadSince   queries.ReadSinceUseCase
	Get         queries.GetSignalUseCase
	Diagnostics queries.DiagnosticsUseCase
	Bus         ports.SignalBus
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repo      ports.SignalRepository
	Bus       ports.SignalBus
	Inspector ports.BusInspector
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	touch := commands.TouchSignalUseCase{
		Repo:   deps.Repo,
		Bus:    deps.Bus,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	readSince := queries.ReadSinceUseCase{
		Repo:   deps.Repo,
		Logger: deps.Logger,
	}
	get := queries.GetSignalUseCase{
		Repo:   deps.Repo,
		Logger: deps.Logger,
	}
	diagnostics := queries.DiagnosticsUseCase{
		Inspector: deps.Inspector,
		Repo:      deps.Repo,
	}

	return Module{
		Handler: httpadapter.Handler{
			Touch:       touch,
			ReadSince:   readSince,
			Diagnostics: diagnostics,
			Logger:      deps.Logger,
		},
		Touch:       touch,
		ReadSince:   readSince,
		Get:         get,
		Diagnostics: diagnostics,
		Bus:         deps.Bus,
	}
}
