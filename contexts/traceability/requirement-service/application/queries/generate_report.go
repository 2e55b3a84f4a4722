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

// GenerateReportUseCase produces one compliance row per requirement with the
// derived risk flags.
type GenerateReportUseCase struct {
	Gate       ports.Authorizer
	Repository ports.Repository
	Aggregator application.Aggregator
	Audit      ports.AuditTrail
	Logger     *slog.Logger
}

// Execute builds the compliance report for a caller with "view" and
// "report". Flags are monotonic: a stored true is never cleared by fresh
// aggregation data, only further evidence of failure is added.
func (u GenerateReportUseCase) Execute(ctx context.Context, caller *accessentities.CallerContext) ([]entities.ReportRow, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := u.Gate.Authorize(caller, accessservices.PermissionView, accessservices.PermissionReport); err != nil {
		denial := map[string]any{
			"attempted_action": auditentities.ActionGenerateComplianceReport,
		}
		if denied, ok := accesserrors.IsAccessDenied(err); ok {
			denial["missing_permissions"] = denied.Missing
		}
		u.Audit.RecordUnauthorized(ctx, caller, auditentities.ActionUnauthorizedAccess, denial)
		return nil, err
	}

	requirements, err := u.Repository.ListRequirements(ctx)
	if err != nil {
		logger.Error("report load failed",
			"event", "traceability_report_load_failed",
			"module", "traceability/requirement-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}

	rows := make([]entities.ReportRow, 0, len(requirements))
	for _, requirement := range requirements {
		testResults := u.Aggregator.Enrich(ctx, entities.KindTestCase, requirement.TestCaseIDs)
		deployments := u.Aggregator.Enrich(ctx, entities.KindDeployment, requirement.DeploymentIDs)

		row := entities.ReportRow{
			RequirementID:         requirement.RequirementID,
			Title:                 requirement.Title,
			Status:                requirement.Status,
			HasFailedTests:        requirement.HasFailedTests,
			HasDeploymentRollback: requirement.HasDeploymentRollback,
			TestResults:           testResults,
			Deployments:           deployments,
		}
		for _, result := range testResults {
			if result.Failed {
				row.HasFailedTests = true
				break
			}
		}
		for _, deployment := range deployments {
			if deployment.RolledBack {
				row.HasDeploymentRollback = true
				break
			}
		}
		rows = append(rows, row)
	}

	u.Audit.RecordAccess(ctx, caller, auditentities.ActionGenerateComplianceReport, map[string]any{
		"requirement_count": len(rows),
	})
	return rows, nil
}
