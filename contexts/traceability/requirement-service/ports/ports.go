package ports

import (
	"context"
	"time"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for requirement ids.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Authorizer evaluates required permission tokens for a caller. Satisfied by
// the access-control gate; every use case calls it before touching data.
type Authorizer interface {
	Authorize(caller *accessentities.CallerContext, required ...string) error
}

// AuditTrail records access/modification/denial outcomes. Satisfied by the
// compliance audit recorder; all methods are fail-open.
type AuditTrail interface {
	RecordAccess(ctx context.Context, caller *accessentities.CallerContext, action string, details map[string]any)
	RecordModification(ctx context.Context, caller *accessentities.CallerContext, action string, details map[string]any)
	RecordUnauthorized(ctx context.Context, caller *accessentities.CallerContext, action string, details map[string]any)
}

// Repository is the requirement persistence boundary. Save is a single-record
// upsert; concurrent writers race and the last write wins. Identifier
// uniqueness is the storage layer's responsibility.
type Repository interface {
	ListRequirements(ctx context.Context) ([]entities.Requirement, error)
	GetRequirement(ctx context.Context, requirementID string) (entities.Requirement, error)
	SaveRequirement(ctx context.Context, requirement entities.Requirement) error
}

// ArtifactSource fetches one raw record per identifier from an upstream
// system. The aggregator owns batch fan-out; a missing identifier is an
// error, which fails the whole kind for that invocation.
type ArtifactSource interface {
	FetchArtifact(ctx context.Context, kind entities.ArtifactKind, externalID string) (entities.RawArtifact, error)
}
