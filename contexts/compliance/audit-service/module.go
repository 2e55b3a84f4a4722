package auditservice

import (
	"log/slog"

	accesscontrol "reqtrace/contexts/identity-access/access-control"

	"reqtrace/contexts/compliance/audit-service/adapters/events"
	httpadapter "reqtrace/contexts/compliance/audit-service/adapters/http"
	"reqtrace/contexts/compliance/audit-service/adapters/memory"
	application "reqtrace/contexts/compliance/audit-service/application"
	"reqtrace/contexts/compliance/audit-service/application/workers"
	"reqtrace/contexts/compliance/audit-service/ports"
)

// Module is the audit-service composition root exposed to runtime wiring.
type Module struct {
	Handler  httpadapter.Handler
	Recorder application.Recorder
	Relay    workers.Relay
	Store    *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Gate        ports.Authorizer
	Repository  ports.Repository
	Stream      ports.StreamPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	BatchSize   int
	Logger      *slog.Logger
}

// NewModule wires the recorder, exporter, relay and transport handler.
func NewModule(deps Dependencies) Module {
	recorder := application.Recorder{
		Repository:  deps.Repository,
		Stream:      deps.Stream,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	exporter := application.Exporter{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	exportUseCase := application.ExportAuditLogUseCase{
		Gate:     deps.Gate,
		Recorder: recorder,
		Exporter: exporter,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ExportAuditLog: exportUseCase,
			Logger:         deps.Logger,
		},
		Recorder: recorder,
		Relay: workers.Relay{
			Repository: deps.Repository,
			Publisher:  deps.Stream,
			Clock:      deps.Clock,
			BatchSize:  deps.BatchSize,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters and a log-only stream sink.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Gate:        accesscontrol.NewModule(logger).Gate,
		Repository:  store,
		Stream:      events.NewPublisher(nil, logger),
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
