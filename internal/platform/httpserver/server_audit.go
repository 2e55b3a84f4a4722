package httpserver

import (
	"net/http"
)

// AuditExport godoc
// @Summary Export the audit trail
// @Tags audit
// @Produce json
// @Param format query string false "Export format (json or csv)" default(json)
// @Success 200 {object} http.ExportResponse
// @Failure 400 {object} http.ErrorResponse
// @Failure 401 {object} http.ErrorResponse
// @Failure 403 {object} http.ErrorResponse
// @Router /api/audit/v1/export [get]
func (s *Server) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r)
	if err != nil {
		writeAuditDomainError(w, err)
		return
	}

	response, err := s.audit.Handler.ExportHandler(r.Context(), caller, r.URL.Query().Get("format"))
	if err != nil {
		writeAuditDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
