package httpserver

import (
	"encoding/json"
	"net/http"

	tracehttp "reqtrace/contexts/traceability/requirement-service/transport/http"
)

// Matrix godoc
// @Summary Get the traceability matrix
// @Tags traceability
// @Produce json
// @Success 200 {object} http.MatrixResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Router /api/traceability/v1/matrix [get]
func (s *Server) handleGetMatrix(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}

	response, err := s.traceability.Handler.GetMatrixHandler(r.Context(), caller)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// Requirement godoc
// @Summary Get one requirement with linked artifacts
// @Tags traceability
// @Produce json
// @Param requirement_id path string true "Requirement ID"
// @Success 200 {object} http.EnrichedRequirementResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /api/traceability/v1/requirements/{requirement_id} [get]
func (s *Server) handleGetRequirement(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}

	response, err := s.traceability.Handler.GetRequirementHandler(r.Context(), caller, r.PathValue("requirement_id"))
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// CreateRequirement godoc
// @Summary Register a new requirement
// @Tags traceability
// @Accept json
// @Produce json
// @Param request body http.CreateRequirementRequest true "Requirement data"
// @Success 201 {object} http.RequirementDTO
// @Failure 400 {object} http.ErrorResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Router /api/traceability/v1/requirements [post]
func (s *Server) handleCreateRequirement(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}

	var request tracehttp.CreateRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeTraceabilityError(w, http.StatusBadRequest, "invalid_request_body", "request body must be valid JSON")
		return
	}

	response, err := s.traceability.Handler.CreateRequirementHandler(r.Context(), caller, request)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

// LinkArtifacts godoc
// @Summary Link external artifact identifiers to a requirement
// @Tags traceability
// @Accept json
// @Produce json
// @Param requirement_id path string true "Requirement ID"
// @Param request body http.LinkArtifactsRequest true "Identifiers by artifact kind"
// @Success 200 {object} http.RequirementDTO
// @Failure 400 {object} http.ErrorResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /api/traceability/v1/requirements/{requirement_id}/links [post]
func (s *Server) handleLinkArtifacts(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}

	var request tracehttp.LinkArtifactsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeTraceabilityError(w, http.StatusBadRequest, "invalid_request_body", "request body must be valid JSON")
		return
	}

	response, err := s.traceability.Handler.LinkArtifactsHandler(r.Context(), caller, r.PathValue("requirement_id"), request)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// UpdateFlags godoc
// @Summary Override a requirement's risk flags
// @Tags traceability
// @Accept json
// @Produce json
// @Param requirement_id path string true "Requirement ID"
// @Param request body http.UpdateFlagsRequest true "Flag overrides"
// @Success 200 {object} http.RequirementDTO
// @Failure 400 {object} http.ErrorResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /api/traceability/v1/requirements/{requirement_id}/flags [patch]
func (s *Server) handleUpdateFlags(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}

	var request tracehttp.UpdateFlagsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeTraceabilityError(w, http.StatusBadRequest, "invalid_request_body", "request body must be valid JSON")
		return
	}

	response, err := s.traceability.Handler.UpdateFlagsHandler(r.Context(), caller, r.PathValue("requirement_id"), request)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// Report godoc
// @Summary Generate the compliance report
// @Tags traceability
// @Produce json
// @Success 200 {object} http.ReportResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Router /api/traceability/v1/report [get]
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}

	response, err := s.traceability.Handler.GenerateReportHandler(r.Context(), caller)
	if err != nil {
		writeTraceabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
