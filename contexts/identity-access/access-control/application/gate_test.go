package application

import (
	"errors"
	"testing"

	"reqtrace/contexts/identity-access/access-control/domain/entities"
	domainerrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	"reqtrace/contexts/identity-access/access-control/domain/services"
)

func caller(role entities.Role) *entities.CallerContext {
	return &entities.CallerContext{
		Username:      "user-1",
		Role:          role,
		SourceAddress: "10.0.0.1",
	}
}

func TestAuthorizeNilCallerIsUnauthenticated(t *testing.T) {
	gate := Gate{}
	err := gate.Authorize(nil, services.PermissionView)
	if !errors.Is(err, domainerrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorizeWildcardGrantsUnlistedTokens(t *testing.T) {
	gate := Gate{}
	if err := gate.Authorize(caller(entities.RoleAdmin), "some-future-token"); err != nil {
		t.Fatalf("expected admin wildcard to allow, got %v", err)
	}
}

func TestAuthorizeGrantsExactlyThePolicyTable(t *testing.T) {
	cases := []struct {
		role    entities.Role
		allowed []string
		denied  []string
	}{
		{entities.RoleCompliance,
			[]string{services.PermissionView, services.PermissionExport, services.PermissionAudit, services.PermissionReport},
			[]string{services.PermissionLink, services.PermissionFlag, services.PermissionEdit}},
		{entities.RoleStakeholder,
			[]string{services.PermissionView, services.PermissionReport},
			[]string{services.PermissionExport, services.PermissionLink, services.PermissionFlag}},
		{entities.RoleDeveloper,
			[]string{services.PermissionView, services.PermissionLink},
			[]string{services.PermissionFlag, services.PermissionReport, services.PermissionAudit}},
		{entities.RoleTester,
			[]string{services.PermissionView, services.PermissionLink, services.PermissionFlag},
			[]string{services.PermissionReport, services.PermissionExport}},
		{entities.RoleViewer,
			[]string{services.PermissionView},
			[]string{services.PermissionLink, services.PermissionFlag, services.PermissionReport}},
	}

	gate := Gate{}
	for _, tc := range cases {
		for _, token := range tc.allowed {
			if err := gate.Authorize(caller(tc.role), token); err != nil {
				t.Fatalf("role %s should hold %s, got %v", tc.role, token, err)
			}
		}
		for _, token := range tc.denied {
			if err := gate.Authorize(caller(tc.role), token); err == nil {
				t.Fatalf("role %s should not hold %s", tc.role, token)
			}
		}
	}
}

func TestAuthorizeDenialListsMissingTokensOnly(t *testing.T) {
	gate := Gate{}
	err := gate.Authorize(caller(entities.RoleViewer), services.PermissionView, services.PermissionReport, services.PermissionLink)
	denied, ok := domainerrors.IsAccessDenied(err)
	if !ok {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if len(denied.Missing) != 2 {
		t.Fatalf("expected two missing tokens, got %v", denied.Missing)
	}
	if denied.Missing[0] != services.PermissionReport || denied.Missing[1] != services.PermissionLink {
		t.Fatalf("unexpected missing tokens: %v", denied.Missing)
	}
}

func TestParseRoleRejectsUnknownRole(t *testing.T) {
	if _, err := entities.ParseRole("superuser"); !errors.Is(err, domainerrors.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := entities.ParseRole(" Tester "); err != nil {
		t.Fatalf("expected trimmed case-insensitive parse, got %v", err)
	}
}
