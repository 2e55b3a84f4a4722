package commands

import (
	"context"
	"log/slog"
	"strings"
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

// CreateRequirementCommand carries the descriptive fields of a new
// requirement. Identifier lists start empty and are populated via linking.
type CreateRequirementCommand struct {
	Title       string
	Description string
	Priority    string
	Status      string
}

// CreateRequirementUseCase registers a new requirement with a generated id.
type CreateRequirementUseCase struct {
	Gate        ports.Authorizer
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Audit       ports.AuditTrail
	Logger      *slog.Logger
}

// Execute creates a requirement for a caller with "edit".
func (u CreateRequirementUseCase) Execute(ctx context.Context, caller *accessentities.CallerContext, cmd CreateRequirementCommand) (entities.Requirement, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := u.Gate.Authorize(caller, accessservices.PermissionEdit); err != nil {
		denial := map[string]any{
			"attempted_action": auditentities.ActionCreateRequirement,
		}
		if denied, ok := accesserrors.IsAccessDenied(err); ok {
			denial["missing_permissions"] = denied.Missing
		}
		u.Audit.RecordUnauthorized(ctx, caller, auditentities.ActionUnauthorizedAccess, denial)
		return entities.Requirement{}, err
	}

	if strings.TrimSpace(cmd.Title) == "" {
		return entities.Requirement{}, domainerrors.ErrInvalidRequirementData
	}

	id, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Requirement{}, err
	}

	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}

	requirement := entities.Requirement{
		RequirementID: id,
		Title:         cmd.Title,
		Description:   cmd.Description,
		Priority:      cmd.Priority,
		Status:        cmd.Status,
		CreatedBy:     caller.Username,
		UpdatedBy:     caller.Username,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := u.Repository.SaveRequirement(ctx, requirement); err != nil {
		logger.Error("create requirement persist failed",
			"event", "traceability_create_persist_failed",
			"module", "traceability/requirement-service",
			"layer", "application",
			"requirement_id", id,
			"error", err.Error(),
		)
		return entities.Requirement{}, err
	}

	u.Audit.RecordModification(ctx, caller, auditentities.ActionCreateRequirement, map[string]any{
		"requirement_id": id,
		"title":          cmd.Title,
	})
	return requirement, nil
}
