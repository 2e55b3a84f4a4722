package httpserver

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	auditservice "reqtrace/contexts/compliance/audit-service"
	requirementservice "reqtrace/contexts/traceability/requirement-service"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

func newTestServer() *Server {
	audit := auditservice.NewInMemoryModule(slog.Default())
	return New(
		requirementservice.NewInMemoryModule(audit.Recorder, slog.Default()),
		audit,
		slog.Default(),
		":0",
	)
}

func TestMatrixRequiresIdentityHeaders(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/traceability/v1/matrix", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMatrixRejectsUnknownRole(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/traceability/v1/matrix", nil)
	req.Header.Set("X-User-Id", "intruder")
	req.Header.Set("X-User-Role", "superuser")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLinkArtifactsForbiddenForViewer(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"identifiers":{"test-case":["TC-1"]}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/traceability/v1/requirements/REQ-1/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "casual-viewer")
	req.Header.Set("X-User-Role", "viewer")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateRequirementForbiddenForDeveloper(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"title":"New requirement","priority":"high"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/traceability/v1/requirements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "dev-1")
	req.Header.Set("X-User-Role", "developer")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetRequirementNotFoundForAdmin(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/traceability/v1/requirements/missing-id", nil)
	req.Header.Set("X-User-Id", "admin-1")
	req.Header.Set("X-User-Role", "admin")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUpdateFlagsRejectsEmptyPayload(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPatch, "/api/traceability/v1/requirements/REQ-1/flags", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "tester-1")
	req.Header.Set("X-User-Role", "tester")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLinkArtifactsPersistFailureReturnsServerError(t *testing.T) {
	audit := auditservice.NewInMemoryModule(slog.Default())
	traceability := requirementservice.NewInMemoryModule(audit.Recorder, slog.Default())
	traceability.Store.Seed(entities.Requirement{RequirementID: "REQ-1", Title: "User login"})
	traceability.Store.SaveErr = errors.New("connection reset by peer")
	server := New(traceability, audit, slog.Default(), ":0")

	body := []byte(`{"identifiers":{"story":["US-1"]}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/traceability/v1/requirements/REQ-1/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "dev-1")
	req.Header.Set("X-User-Role", "developer")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestReportForbiddenForDeveloper(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/traceability/v1/report", nil)
	req.Header.Set("X-User-Id", "dev-1")
	req.Header.Set("X-User-Role", "developer")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}
