package requirementservice

import (
	"log/slog"

	auditservice "reqtrace/contexts/compliance/audit-service"
	accesscontrol "reqtrace/contexts/identity-access/access-control"

	httpadapter "reqtrace/contexts/traceability/requirement-service/adapters/http"
	"reqtrace/contexts/traceability/requirement-service/adapters/memory"
	application "reqtrace/contexts/traceability/requirement-service/application"
	"reqtrace/contexts/traceability/requirement-service/application/commands"
	"reqtrace/contexts/traceability/requirement-service/application/queries"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	"reqtrace/contexts/traceability/requirement-service/ports"
)

// Module is the requirement-service composition root exposed to runtime
// wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Sources map[entities.ArtifactKind]*memory.StaticSource
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Gate                ports.Authorizer
	Audit               ports.AuditTrail
	Repository          ports.Repository
	Sources             map[entities.ArtifactKind]ports.ArtifactSource
	Clock               ports.Clock
	IDGenerator         ports.IDGenerator
	DeploySuccessStatus string
	Logger              *slog.Logger
}

// NewModule wires traceability use-cases and the transport handler using
// explicit ports.
func NewModule(deps Dependencies) Module {
	aggregator := application.Aggregator{
		Sources:             deps.Sources,
		DeploySuccessStatus: deps.DeploySuccessStatus,
		Logger:              deps.Logger,
	}

	getMatrix := queries.GetMatrixUseCase{
		Gate:       deps.Gate,
		Repository: deps.Repository,
		Aggregator: aggregator,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	getRequirement := queries.GetRequirementUseCase{
		Gate:       deps.Gate,
		Repository: deps.Repository,
		Aggregator: aggregator,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	generateReport := queries.GenerateReportUseCase{
		Gate:       deps.Gate,
		Repository: deps.Repository,
		Aggregator: aggregator,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	createRequirement := commands.CreateRequirementUseCase{
		Gate:        deps.Gate,
		Repository:  deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Audit:       deps.Audit,
		Logger:      deps.Logger,
	}
	linkArtifacts := commands.LinkArtifactsUseCase{
		Gate:       deps.Gate,
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	updateFlags := commands.UpdateFlagsUseCase{
		Gate:       deps.Gate,
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			GetMatrix:         getMatrix,
			GetRequirement:    getRequirement,
			GenerateReport:    generateReport,
			CreateRequirement: createRequirement,
			LinkArtifacts:     linkArtifacts,
			UpdateFlags:       updateFlags,
			Logger:            deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters: one static source per artifact kind and a fail-open audit
// recorder backed by an in-memory store.
func NewInMemoryModule(audit ports.AuditTrail, logger *slog.Logger) Module {
	store := memory.NewStore()
	if audit == nil {
		audit = auditservice.NewInMemoryModule(logger).Recorder
	}

	staticSources := make(map[entities.ArtifactKind]*memory.StaticSource, len(entities.AllKinds()))
	sources := make(map[entities.ArtifactKind]ports.ArtifactSource, len(entities.AllKinds()))
	for _, kind := range entities.AllKinds() {
		source := memory.NewStaticSource()
		staticSources[kind] = source
		sources[kind] = source
	}

	module := NewModule(Dependencies{
		Gate:                accesscontrol.NewModule(logger).Gate,
		Audit:               audit,
		Repository:          store,
		Sources:             sources,
		Clock:               store,
		IDGenerator:         store,
		DeploySuccessStatus: "success",
		Logger:              logger,
	})
	module.Store = store
	module.Sources = staticSources
	return module
}
