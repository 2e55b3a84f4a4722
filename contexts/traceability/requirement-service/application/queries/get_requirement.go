package queries

import (
	"context"
	"errors"
	"log/slog"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"
	accesserrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	accessservices "reqtrace/contexts/identity-access/access-control/domain/services"
	auditentities "reqtrace/contexts/compliance/audit-service/domain/entities"

	application "reqtrace/contexts/traceability/requirement-service/application"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	domainerrors "reqtrace/contexts/traceability/requirement-service/domain/errors"
	"reqtrace/contexts/traceability/requirement-service/ports"
)

// GetRequirementUseCase enriches a single requirement.
type GetRequirementUseCase struct {
	Gate       ports.Authorizer
	Repository ports.Repository
	Aggregator application.Aggregator
	Audit      ports.AuditTrail
	Logger     *slog.Logger
}

// Execute returns one enriched requirement for a caller with "view". A
// missing identifier is audited as a not-found access before the error is
// returned.
func (u GetRequirementUseCase) Execute(ctx context.Context, caller *accessentities.CallerContext, requirementID string) (entities.EnrichedRequirement, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := u.Gate.Authorize(caller, accessservices.PermissionView); err != nil {
		denial := map[string]any{
			"attempted_action": auditentities.ActionGetRequirement,
			"requirement_id":   requirementID,
		}
		if denied, ok := accesserrors.IsAccessDenied(err); ok {
			denial["missing_permissions"] = denied.Missing
		}
		u.Audit.RecordUnauthorized(ctx, caller, auditentities.ActionUnauthorizedAccess, denial)
		return entities.EnrichedRequirement{}, err
	}

	requirement, err := u.Repository.GetRequirement(ctx, requirementID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrRequirementNotFound) {
			u.Audit.RecordAccess(ctx, caller, auditentities.ActionRequirementNotFound, map[string]any{
				"requirement_id": requirementID,
			})
			return entities.EnrichedRequirement{}, err
		}
		logger.Error("requirement load failed",
			"event", "traceability_requirement_load_failed",
			"module", "traceability/requirement-service",
			"layer", "application",
			"requirement_id", requirementID,
			"error", err.Error(),
		)
		return entities.EnrichedRequirement{}, err
	}

	enriched := entities.EnrichedRequirement{
		Requirement: requirement,
		Artifacts:   u.Aggregator.EnrichAll(ctx, requirement),
	}

	u.Audit.RecordAccess(ctx, caller, auditentities.ActionGetRequirement, map[string]any{
		"requirement_id": requirementID,
	})
	return enriched, nil
}
