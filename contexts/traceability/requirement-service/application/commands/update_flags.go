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
	"reqtrace/contexts/traceability/requirement-service/ports"
)

// UpdateFlagsCommand is a partial update: a nil flag leaves the stored value
// untouched.
type UpdateFlagsCommand struct {
	RequirementID         string
	HasFailedTests        *bool
	HasDeploymentRollback *bool
}

// UpdateFlagsUseCase applies explicit administrative overrides to the two
// derived risk flags.
type UpdateFlagsUseCase struct {
	Gate       ports.Authorizer
	Repository ports.Repository
	Clock      ports.Clock
	Audit      ports.AuditTrail
	Logger     *slog.Logger
}

// Execute updates supplied flags for a caller with "flag".
func (u UpdateFlagsUseCase) Execute(ctx context.Context, caller *accessentities.CallerContext, cmd UpdateFlagsCommand) (entities.Requirement, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := u.Gate.Authorize(caller, accessservices.PermissionFlag); err != nil {
		denial := map[string]any{
			"attempted_action": auditentities.ActionUpdateRequirementFlags,
			"requirement_id":   cmd.RequirementID,
		}
		if denied, ok := accesserrors.IsAccessDenied(err); ok {
			denial["missing_permissions"] = denied.Missing
		}
		u.Audit.RecordUnauthorized(ctx, caller, auditentities.ActionUnauthorizedAccess, denial)
		return entities.Requirement{}, err
	}

	if cmd.HasFailedTests == nil && cmd.HasDeploymentRollback == nil {
		return entities.Requirement{}, domainerrors.ErrNoFlagsSupplied
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

	details := map[string]any{"requirement_id": cmd.RequirementID}
	if cmd.HasFailedTests != nil {
		requirement.HasFailedTests = *cmd.HasFailedTests
		details["has_failed_tests"] = *cmd.HasFailedTests
	}
	if cmd.HasDeploymentRollback != nil {
		requirement.HasDeploymentRollback = *cmd.HasDeploymentRollback
		details["has_deployment_rollback"] = *cmd.HasDeploymentRollback
	}
	requirement.UpdatedBy = caller.Username
	requirement.UpdatedAt = u.now()

	if err := u.Repository.SaveRequirement(ctx, requirement); err != nil {
		logger.Error("update flags persist failed",
			"event", "traceability_flags_persist_failed",
			"module", "traceability/requirement-service",
			"layer", "application",
			"requirement_id", cmd.RequirementID,
			"error", err.Error(),
		)
		return entities.Requirement{}, err
	}

	u.Audit.RecordModification(ctx, caller, auditentities.ActionUpdateRequirementFlags, details)
	return requirement, nil
}

func (u UpdateFlagsUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
