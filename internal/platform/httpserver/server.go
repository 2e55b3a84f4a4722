package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	auditservice "reqtrace/contexts/compliance/audit-service"
	audithttp "reqtrace/contexts/compliance/audit-service/transport/http"
	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"
	accesserrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	requirementservice "reqtrace/contexts/traceability/requirement-service"
	traceerrors "reqtrace/contexts/traceability/requirement-service/domain/errors"
	tracehttp "reqtrace/contexts/traceability/requirement-service/transport/http"

	auditerrors "reqtrace/contexts/compliance/audit-service/domain/errors"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "reqtrace/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	traceability requirementservice.Module
	audit        auditservice.Module
}

func New(
	traceability requirementservice.Module,
	audit auditservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		traceability: traceability,
		audit:        audit,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/traceability/v1/matrix", s.handleGetMatrix)
	s.mux.HandleFunc("GET /api/traceability/v1/requirements/{requirement_id}", s.handleGetRequirement)
	s.mux.HandleFunc("POST /api/traceability/v1/requirements", s.handleCreateRequirement)
	s.mux.HandleFunc("POST /api/traceability/v1/requirements/{requirement_id}/links", s.handleLinkArtifacts)
	s.mux.HandleFunc("PATCH /api/traceability/v1/requirements/{requirement_id}/flags", s.handleUpdateFlags)
	s.mux.HandleFunc("GET /api/traceability/v1/report", s.handleGenerateReport)

	s.mux.HandleFunc("GET /api/audit/v1/export", s.handleAuditExport)
}

// resolveCaller builds the caller context from the identity headers the
// authentication front-end injects. A request with no identity yields a nil
// caller; the authorization gate turns that into an unauthenticated denial
// before any data access.
func resolveCaller(r *http.Request) (*accessentities.CallerContext, error) {
	username := strings.TrimSpace(r.Header.Get("X-User-Id"))
	rawRole := strings.TrimSpace(r.Header.Get("X-User-Role"))
	if username == "" && rawRole == "" {
		return nil, nil
	}

	caller, err := accessentities.NewCallerContext(username, rawRole, resolveClientIP(r))
	if err != nil {
		return nil, err
	}
	return &caller, nil
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}

func writeTraceabilityDomainError(w http.ResponseWriter, err error) {
	var denied *accesserrors.AccessDeniedError
	switch {
	case errors.Is(err, accesserrors.ErrUnauthenticated),
		errors.Is(err, accesserrors.ErrUnknownRole):
		writeTraceabilityError(w, http.StatusUnauthorized, "unauthenticated", "valid identity is required")
	case errors.As(err, &denied):
		writeTraceabilityError(w, http.StatusForbidden, "forbidden", denied.Error())
	case errors.Is(err, traceerrors.ErrRequirementNotFound):
		writeTraceabilityError(w, http.StatusNotFound, "requirement_not_found", err.Error())
	case errors.Is(err, traceerrors.ErrInvalidArtifactKind),
		errors.Is(err, traceerrors.ErrInvalidRequirementData),
		errors.Is(err, traceerrors.ErrNoFlagsSupplied):
		writeTraceabilityError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeTraceabilityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuditDomainError(w http.ResponseWriter, err error) {
	var denied *accesserrors.AccessDeniedError
	switch {
	case errors.Is(err, accesserrors.ErrUnauthenticated),
		errors.Is(err, accesserrors.ErrUnknownRole):
		writeAuditError(w, http.StatusUnauthorized, "unauthenticated", "valid identity is required")
	case errors.As(err, &denied):
		writeAuditError(w, http.StatusForbidden, "forbidden", denied.Error())
	case errors.Is(err, auditerrors.ErrUnsupportedExportFormat):
		writeAuditError(w, http.StatusBadRequest, "invalid_format", err.Error())
	default:
		writeAuditError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeTraceabilityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, tracehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeAuditError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, audithttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
