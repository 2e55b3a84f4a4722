package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuditExportRequiresIdentityHeaders(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/audit/v1/export", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAuditExportForbiddenForStakeholder(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/audit/v1/export", nil)
	req.Header.Set("X-User-Id", "stakeholder-1")
	req.Header.Set("X-User-Role", "stakeholder")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAuditExportRejectsUnknownFormat(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/audit/v1/export?format=xml", nil)
	req.Header.Set("X-User-Id", "compliance-1")
	req.Header.Set("X-User-Role", "compliance")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAuditExportAllowedForCompliance(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/audit/v1/export?format=json", nil)
	req.Header.Set("X-User-Id", "compliance-1")
	req.Header.Set("X-User-Role", "compliance")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}
