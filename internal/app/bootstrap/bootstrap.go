package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	auditservice "reqtrace/contexts/compliance/audit-service"
	auditevents "reqtrace/contexts/compliance/audit-service/adapters/events"
	auditpostgres "reqtrace/contexts/compliance/audit-service/adapters/postgres"
	auditworkers "reqtrace/contexts/compliance/audit-service/application/workers"
	accesscontrol "reqtrace/contexts/identity-access/access-control"
	requirementservice "reqtrace/contexts/traceability/requirement-service"
	"reqtrace/contexts/traceability/requirement-service/adapters/buildsystem"
	"reqtrace/contexts/traceability/requirement-service/adapters/issuetracker"
	tracepostgres "reqtrace/contexts/traceability/requirement-service/adapters/postgres"
	"reqtrace/contexts/traceability/requirement-service/adapters/sourcehost"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	traceports "reqtrace/contexts/traceability/requirement-service/ports"
	"reqtrace/internal/platform/config"
	"reqtrace/internal/platform/db"
	"reqtrace/internal/platform/httpserver"
	"reqtrace/internal/platform/messaging"
	"reqtrace/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relay        auditworkers.Relay
	stream       <-chan events.Envelope
	pollInterval time.Duration
	logger       *slog.Logger
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

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	accessModule := accesscontrol.NewModule(logger)

	auditRepo := auditpostgres.NewRepository(pg.DB, logger)
	auditModule := auditservice.NewModule(auditservice.Dependencies{
		Gate:        accessModule.Gate,
		Repository:  auditRepo,
		Stream:      auditevents.NewPublisher(kafka, logger),
		Clock:       auditpostgres.SystemClock{},
		IDGenerator: auditpostgres.UUIDGenerator{},
		BatchSize:   cfg.AuditRelayBatchSize,
		Logger:      logger,
	})

	issues := issuetracker.NewClient(cfg.IssueTrackerBaseURL, cfg.IssueTrackerToken, nil)
	commits := sourcehost.NewClient(cfg.SourceHostBaseURL, cfg.SourceHostToken, nil)
	builds := buildsystem.NewClient(cfg.BuildSystemBaseURL, cfg.BuildSystemToken, nil)

	traceRepo := tracepostgres.NewRepository(pg.DB, logger)
	traceModule := requirementservice.NewModule(requirementservice.Dependencies{
		Gate:       accessModule.Gate,
		Audit:      auditModule.Recorder,
		Repository: traceRepo,
		Sources: map[entities.ArtifactKind]traceports.ArtifactSource{
			entities.KindStory:      issues,
			entities.KindTask:       issues,
			entities.KindTestCase:   builds,
			entities.KindCommit:     commits,
			entities.KindDeployment: builds,
		},
		Clock:               tracepostgres.SystemClock{},
		IDGenerator:         tracepostgres.UUIDGenerator{},
		DeploySuccessStatus: cfg.DeploySuccessStatus,
		Logger:              logger,
	})

	server := httpserver.New(traceModule, auditModule, logger, normalizeAddr(cfg.HTTPPort))
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

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	auditRepo := auditpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		relay: auditworkers.Relay{
			Repository: auditRepo,
			Publisher:  auditevents.NewPublisher(kafka, logger),
			Clock:      auditpostgres.SystemClock{},
			BatchSize:  cfg.AuditRelayBatchSize,
			Logger:     logger,
		},
		stream:       kafka.Subscribe(auditevents.Topic, 64),
		pollInterval: cfg.AuditRelayPollInterval,
		logger:       logger,
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

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	if w.stream != nil {
		go w.consumeStream(ctx)
	}

	for {
		if err := w.relay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			// Drain once more so entries recorded just before shutdown are
			// relayed.
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return w.relay.RunOnce(drainCtx)
		case <-ticker.C:
		}
	}
}

// consumeStream logs every relayed audit event so the worker doubles as a
// diagnostic tail of the bus topic it publishes to.
func (w *WorkerApp) consumeStream(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.stream:
			w.logger.Info("audit event observed",
				"event", "bootstrap_audit_event_observed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"entity_id", event.EntityID,
			)
		}
	}
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
