package httpadapter

import (
	"context"
	"log/slog"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"

	application "reqtrace/contexts/compliance/audit-service/application"
	httptransport "reqtrace/contexts/compliance/audit-service/transport/http"
)

// Handler maps HTTP DTOs to audit application use cases.
type Handler struct {
	ExportAuditLog application.ExportAuditLogUseCase
	Logger         *slog.Logger
}

// ExportHandler serves the serialized audit trail.
func (h Handler) ExportHandler(ctx context.Context, caller *accessentities.CallerContext, rawFormat string) (httptransport.ExportResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	format, err := application.ParseExportFormat(rawFormat)
	if err != nil {
		return httptransport.ExportResponse{}, err
	}

	payload, err := h.ExportAuditLog.Execute(ctx, caller, format)
	if err != nil {
		logger.Error("http audit export failed",
			"event", "audit_http_export_failed",
			"module", "compliance/audit-service",
			"layer", "transport",
			"format", string(format),
			"error", err.Error(),
		)
		return httptransport.ExportResponse{}, err
	}

	return httptransport.ExportResponse{
		Format:  string(format),
		Payload: payload,
	}, nil
}
