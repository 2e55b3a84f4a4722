package httpadapter

import (
	"context"
	"log/slog"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"

	application "reqtrace/contexts/traceability/requirement-service/application"
	"reqtrace/contexts/traceability/requirement-service/application/commands"
	"reqtrace/contexts/traceability/requirement-service/application/queries"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	httptransport "reqtrace/contexts/traceability/requirement-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	GetMatrix         queries.GetMatrixUseCase
	GetRequirement    queries.GetRequirementUseCase
	GenerateReport    queries.GenerateReportUseCase
	CreateRequirement commands.CreateRequirementUseCase
	LinkArtifacts     commands.LinkArtifactsUseCase
	UpdateFlags       commands.UpdateFlagsUseCase
	Logger            *slog.Logger
}

// GetMatrixHandler returns the full traceability matrix.
func (h Handler) GetMatrixHandler(ctx context.Context, caller *accessentities.CallerContext) (httptransport.MatrixResponse, error) {
	matrix, err := h.GetMatrix.Execute(ctx, caller)
	if err != nil {
		return httptransport.MatrixResponse{}, err
	}

	items := make([]httptransport.EnrichedRequirementResponse, 0, len(matrix))
	for _, enriched := range matrix {
		items = append(items, toEnrichedResponse(enriched))
	}
	return httptransport.MatrixResponse{Requirements: items}, nil
}

// GetRequirementHandler returns one enriched requirement.
func (h Handler) GetRequirementHandler(ctx context.Context, caller *accessentities.CallerContext, requirementID string) (httptransport.EnrichedRequirementResponse, error) {
	enriched, err := h.GetRequirement.Execute(ctx, caller, requirementID)
	if err != nil {
		return httptransport.EnrichedRequirementResponse{}, err
	}
	return toEnrichedResponse(enriched), nil
}

// GenerateReportHandler returns the compliance report.
func (h Handler) GenerateReportHandler(ctx context.Context, caller *accessentities.CallerContext) (httptransport.ReportResponse, error) {
	rows, err := h.GenerateReport.Execute(ctx, caller)
	if err != nil {
		return httptransport.ReportResponse{}, err
	}

	items := make([]httptransport.ReportRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, httptransport.ReportRowDTO{
			RequirementID:         row.RequirementID,
			Title:                 row.Title,
			Status:                row.Status,
			HasFailedTests:        row.HasFailedTests,
			HasDeploymentRollback: row.HasDeploymentRollback,
			TestResults:           toArtifactDTOs(row.TestResults),
			Deployments:           toArtifactDTOs(row.Deployments),
		})
	}
	return httptransport.ReportResponse{Rows: items}, nil
}

// CreateRequirementHandler registers a new requirement.
func (h Handler) CreateRequirementHandler(ctx context.Context, caller *accessentities.CallerContext, request httptransport.CreateRequirementRequest) (httptransport.RequirementDTO, error) {
	requirement, err := h.CreateRequirement.Execute(ctx, caller, commands.CreateRequirementCommand{
		Title:       request.Title,
		Description: request.Description,
		Priority:    request.Priority,
		Status:      request.Status,
	})
	if err != nil {
		return httptransport.RequirementDTO{}, err
	}
	return toRequirementDTO(requirement), nil
}

// LinkArtifactsHandler unions submitted identifiers into a requirement.
func (h Handler) LinkArtifactsHandler(ctx context.Context, caller *accessentities.CallerContext, requirementID string, request httptransport.LinkArtifactsRequest) (httptransport.RequirementDTO, error) {
	logger := application.ResolveLogger(h.Logger)

	identifiers := make(map[entities.ArtifactKind][]string, len(request.Identifiers))
	for rawKind, ids := range request.Identifiers {
		kind, err := entities.ParseArtifactKind(rawKind)
		if err != nil {
			logger.Warn("http link rejected unknown artifact kind",
				"event", "traceability_http_link_invalid_kind",
				"module", "traceability/requirement-service",
				"layer", "transport",
				"kind", rawKind,
			)
			return httptransport.RequirementDTO{}, err
		}
		identifiers[kind] = ids
	}

	requirement, err := h.LinkArtifacts.Execute(ctx, caller, commands.LinkArtifactsCommand{
		RequirementID: requirementID,
		Identifiers:   identifiers,
	})
	if err != nil {
		return httptransport.RequirementDTO{}, err
	}
	return toRequirementDTO(requirement), nil
}

// UpdateFlagsHandler applies explicit risk flag overrides.
func (h Handler) UpdateFlagsHandler(ctx context.Context, caller *accessentities.CallerContext, requirementID string, request httptransport.UpdateFlagsRequest) (httptransport.RequirementDTO, error) {
	requirement, err := h.UpdateFlags.Execute(ctx, caller, commands.UpdateFlagsCommand{
		RequirementID:         requirementID,
		HasFailedTests:        request.HasFailedTests,
		HasDeploymentRollback: request.HasDeploymentRollback,
	})
	if err != nil {
		return httptransport.RequirementDTO{}, err
	}
	return toRequirementDTO(requirement), nil
}

func toEnrichedResponse(enriched entities.EnrichedRequirement) httptransport.EnrichedRequirementResponse {
	artifacts := make(map[string][]httptransport.ArtifactDTO, len(enriched.Artifacts))
	for kind, items := range enriched.Artifacts {
		artifacts[string(kind)] = toArtifactDTOs(items)
	}
	return httptransport.EnrichedRequirementResponse{
		Requirement: toRequirementDTO(enriched.Requirement),
		Artifacts:   artifacts,
	}
}

func toRequirementDTO(requirement entities.Requirement) httptransport.RequirementDTO {
	return httptransport.RequirementDTO{
		RequirementID:         requirement.RequirementID,
		Title:                 requirement.Title,
		Description:           requirement.Description,
		Priority:              requirement.Priority,
		Status:                requirement.Status,
		UserStoryIDs:          emptyIfNil(requirement.UserStoryIDs),
		TaskIDs:               emptyIfNil(requirement.TaskIDs),
		TestCaseIDs:           emptyIfNil(requirement.TestCaseIDs),
		CodeCommitIDs:         emptyIfNil(requirement.CodeCommitIDs),
		DeploymentIDs:         emptyIfNil(requirement.DeploymentIDs),
		HasFailedTests:        requirement.HasFailedTests,
		HasDeploymentRollback: requirement.HasDeploymentRollback,
		CreatedBy:             requirement.CreatedBy,
		UpdatedBy:             requirement.UpdatedBy,
		CreatedAt:             requirement.CreatedAt,
		UpdatedAt:             requirement.UpdatedAt,
	}
}

func toArtifactDTOs(items []entities.EnrichedArtifact) []httptransport.ArtifactDTO {
	out := make([]httptransport.ArtifactDTO, 0, len(items))
	for _, item := range items {
		out = append(out, httptransport.ArtifactDTO{
			ExternalID: item.ExternalID,
			DisplayKey: item.DisplayKey,
			Title:      item.Title,
			Status:     item.Status,
			Owner:      item.Owner,
			URL:        item.URL,
			Failed:     item.Failed,
			RolledBack: item.RolledBack,
		})
	}
	return out
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
