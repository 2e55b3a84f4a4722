package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"
	accesserrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	accessservices "reqtrace/contexts/identity-access/access-control/domain/services"
	auditentities "reqtrace/contexts/compliance/audit-service/domain/entities"

	application "reqtrace/contexts/traceability/requirement-service/application"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	domainerrors "reqtrace/contexts/traceability/requirement-service/domain/errors"
	"reqtrace/contexts/traceability/requirement-service/domain/services"
	"reqtrace/contexts/traceability/requirement-service/ports"
)

// LinkArtifactsCommand carries the identifier lists to union into a
// requirement, keyed by artifact kind.
type LinkArtifactsCommand struct {
	RequirementID string
	Identifiers   map[entities.ArtifactKind][]string
}

// LinkArtifactsUseCase merges submitted identifiers into the stored lists.
// The merge is a deduplicating ordered-set union, so repeating a link is
// idempotent. Persistence failures surface to the caller.
type LinkArtifactsUseCase struct {
	Gate       ports.Authorizer
	Repository ports.Repository
	Clock      ports.Clock
	Audit      ports.AuditTrail
	Logger     *slog.Logger
}

// Execute links artifacts for a caller with "link".
func (u LinkArtifactsUseCase) Execute(ctx context.Context, caller *accessentities.CallerContext, cmd LinkArtifactsCommand) (entities.Requirement, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := u.Gate.Authorize(caller, accessservices.PermissionLink); err != nil {
		denial := map[string]any{
			"attempted_action": auditentities.ActionLinkArtifacts,
			"requirement_id":   cmd.RequirementID,
		}
		if denied, ok := accesserrors.IsAccessDenied(err); ok {
			denial["missing_permissions"] = denied.Missing
		}
		u.Audit.RecordUnauthorized(ctx, caller, auditentities.ActionUnauthorizedAccess, denial)
		return entities.Requirement{}, err
	}

	requirement, err := u.Repository.GetRequirement(ctx, cmd.RequirementID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrRequirementNotFound) {
			u.Audit.RecordAccess(ctx, caller, auditentities.ActionRequirementNotFound, map[string]any{
				"requirement_id": cmd.RequirementID,
			})
		}
		return entities.Requirement{}, err
	}

	// The audit payload records everything the caller submitted, not only
	// the delta, to preserve intent for later review.
	submitted := make(map[string]any, len(cmd.Identifiers))
	for kind, ids := range cmd.Identifiers {
		requirement.SetIdentifiers(kind, services.MergeIdentifiers(requirement.IdentifiersFor(kind), ids))
		submitted[string(kind)] = ids
	}
	requirement.UpdatedBy = caller.Username
	requirement.UpdatedAt = u.now()

	if err := u.Repository.SaveRequirement(ctx, requirement); err != nil {
		logger.Error("link artifacts persist failed",
			"event", "traceability_link_persist_failed",
			"module", "traceability/requirement-service",
			"layer", "application",
			"requirement_id", cmd.RequirementID,
			"error", err.Error(),
		)
		return entities.Requirement{}, err
	}

	u.Audit.RecordModification(ctx, caller, auditentities.ActionLinkArtifacts, map[string]any{
		"requirement_id": cmd.RequirementID,
		"submitted":      submitted,
	})
	return requirement, nil
}

func (u LinkArtifactsUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
