package queries

import (
	"context"
	"log/slog"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"
	accesserrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	accessservices "reqtrace/contexts/identity-access/access-control/domain/services"
	auditentities "reqtrace/contexts/compliance/audit-service/domain/entities"

	application "reqtrace/contexts/traceability/requirement-service/application"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	"reqtrace/contexts/traceability/requirement-service/ports"
)

// GetMatrixUseCase loads every requirement and enriches all five artifact
// kinds per requirement.
type GetMatrixUseCase struct {
	Gate       ports.Authorizer
	Repository ports.Repository
	Aggregator application.Aggregator
	Audit      ports.AuditTrail
	Logger     *slog.Logger
}

// Execute returns the full traceability matrix for a caller with "view".
func (u GetMatrixUseCase) Execute(ctx context.Context, caller *accessentities.CallerContext) ([]entities.EnrichedRequirement, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := u.Gate.Authorize(caller, accessservices.PermissionView); err != nil {
		denial := map[string]any{
			"attempted_action": auditentities.ActionGetTraceabilityMatrix,
		}
		if denied, ok := accesserrors.IsAccessDenied(err); ok {
			denial["missing_permissions"] = denied.Missing
		}
		u.Audit.RecordUnauthorized(ctx, caller, auditentities.ActionUnauthorizedAccess, denial)
		return nil, err
	}

	requirements, err := u.Repository.ListRequirements(ctx)
	if err != nil {
		logger.Error("matrix load failed",
			"event", "traceability_matrix_load_failed",
			"module", "traceability/requirement-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}

	matrix := make([]entities.EnrichedRequirement, 0, len(requirements))
	for _, requirement := range requirements {
		matrix = append(matrix, entities.EnrichedRequirement{
			Requirement: requirement,
			Artifacts:   u.Aggregator.EnrichAll(ctx, requirement),
		})
	}

	u.Audit.RecordAccess(ctx, caller, auditentities.ActionGetTraceabilityMatrix, map[string]any{
		"requirement_count": len(matrix),
	})
	return matrix, nil
}
