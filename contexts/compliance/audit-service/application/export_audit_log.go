package application

import (
	"context"
	"log/slog"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"
	accesserrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	accessservices "reqtrace/contexts/identity-access/access-control/domain/services"

	"reqtrace/contexts/compliance/audit-service/domain/entities"
	"reqtrace/contexts/compliance/audit-service/ports"
)

// ExportAuditLogUseCase authorizes and serves compliance exports. The export
// is itself an audited access.
type ExportAuditLogUseCase struct {
	Gate     ports.Authorizer
	Recorder Recorder
	Exporter Exporter
	Logger   *slog.Logger
}

// Execute returns the serialized audit trail for an authorized caller.
func (u ExportAuditLogUseCase) Execute(ctx context.Context, caller *accessentities.CallerContext, format ExportFormat) (string, error) {
	if err := u.Gate.Authorize(caller, accessservices.PermissionAudit, accessservices.PermissionExport); err != nil {
		denial := map[string]any{
			"attempted_action": entities.ActionExportAuditLog,
			"format":           string(format),
		}
		if denied, ok := accesserrors.IsAccessDenied(err); ok {
			denial["missing_permissions"] = denied.Missing
		}
		u.Recorder.RecordUnauthorized(ctx, caller, entities.ActionUnauthorizedAccess, denial)
		return "", err
	}

	payload := u.Exporter.Export(ctx, format)
	u.Recorder.RecordAccess(ctx, caller, entities.ActionExportAuditLog, map[string]any{
		"format": string(format),
	})
	return payload, nil
}
