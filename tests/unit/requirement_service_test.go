package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	auditservice "reqtrace/contexts/compliance/audit-service"
	auditentities "reqtrace/contexts/compliance/audit-service/domain/entities"
	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"
	accesserrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	requirementservice "reqtrace/contexts/traceability/requirement-service"
	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	domainerrors "reqtrace/contexts/traceability/requirement-service/domain/errors"
	httptransport "reqtrace/contexts/traceability/requirement-service/transport/http"
)

func newTraceabilityFixture(t *testing.T) (requirementservice.Module, auditservice.Module) {
	t.Helper()
	audit := auditservice.NewInMemoryModule(nil)
	return requirementservice.NewInMemoryModule(audit.Recorder, nil), audit
}

func caller(t *testing.T, username string, role string) *accessentities.CallerContext {
	t.Helper()
	c, err := accessentities.NewCallerContext(username, role, "10.0.0.1")
	if err != nil {
		t.Fatalf("build caller failed: %v", err)
	}
	return &c
}

func seedRequirement(module requirementservice.Module, id string) {
	module.Store.Seed(entities.Requirement{
		RequirementID: id,
		Title:         "User login",
		Priority:      "high",
		Status:        "in_progress",
		UserStoryIDs:  []string{"US-1"},
		CreatedBy:     "admin-1",
		CreatedAt:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	})
}

func findAuditEntry(t *testing.T, audit auditservice.Module, kind auditentities.Kind) auditentities.Entry {
	t.Helper()
	entries, err := audit.Store.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("list audit entries failed: %v", err)
	}
	for _, entry := range entries {
		if entry.Kind == kind {
			return entry
		}
	}
	t.Fatalf("no audit entry of kind %s, got %+v", kind, entries)
	return auditentities.Entry{}
}

func TestViewerLinkDeniedAndAudited(t *testing.T) {
	module, audit := newTraceabilityFixture(t)
	seedRequirement(module, "REQ-1")

	_, err := module.Handler.LinkArtifactsHandler(context.Background(), caller(t, "casual-viewer", "viewer"), "REQ-1", httptransport.LinkArtifactsRequest{
		Identifiers: map[string][]string{"test-case": {"TC-1"}},
	})
	if _, ok := accesserrors.IsAccessDenied(err); !ok {
		t.Fatalf("expected access denied, got %v", err)
	}

	entry := findAuditEntry(t, audit, auditentities.KindUnauthorizedAccess)
	if entry.Username != "casual-viewer" {
		t.Fatalf("expected denied caller recorded, got %q", entry.Username)
	}
	if entry.Action != auditentities.ActionUnauthorizedAccess {
		t.Fatalf("unexpected action %q", entry.Action)
	}
	if entry.Details["attempted_action"] != auditentities.ActionLinkArtifacts {
		t.Fatalf("expected attempted action recorded, got %+v", entry.Details)
	}
	missing, ok := entry.Details["missing_permissions"].([]string)
	if !ok || len(missing) != 1 || missing[0] != "link" {
		t.Fatalf("expected missing permission tokens recorded, got %+v", entry.Details)
	}
}

func TestAdminMissingRequirementAudited(t *testing.T) {
	module, audit := newTraceabilityFixture(t)

	_, err := module.Handler.GetRequirementHandler(context.Background(), caller(t, "admin-1", "admin"), "missing-id")
	if !errors.Is(err, domainerrors.ErrRequirementNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	entry := findAuditEntry(t, audit, auditentities.KindAccess)
	if entry.Action != auditentities.ActionRequirementNotFound {
		t.Fatalf("expected not-found lookup audited, got %q", entry.Action)
	}
	if entry.Details["requirement_id"] != "missing-id" {
		t.Fatalf("expected requested id recorded, got %+v", entry.Details)
	}
}

func TestLinkArtifactsUnionIsIdempotent(t *testing.T) {
	module, audit := newTraceabilityFixture(t)
	seedRequirement(module, "REQ-1")
	developer := caller(t, "dev-1", "developer")

	request := httptransport.LinkArtifactsRequest{
		Identifiers: map[string][]string{
			"story":  {"US-2", "US-1"},
			"commit": {"abc123"},
		},
	}

	first, err := module.Handler.LinkArtifactsHandler(context.Background(), developer, "REQ-1", request)
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if len(first.UserStoryIDs) != 2 || first.UserStoryIDs[0] != "US-1" || first.UserStoryIDs[1] != "US-2" {
		t.Fatalf("expected ordered union [US-1 US-2], got %v", first.UserStoryIDs)
	}

	second, err := module.Handler.LinkArtifactsHandler(context.Background(), developer, "REQ-1", request)
	if err != nil {
		t.Fatalf("repeat link failed: %v", err)
	}
	if len(second.UserStoryIDs) != 2 || len(second.CodeCommitIDs) != 1 {
		t.Fatalf("expected repeat link to be a no-op, got %+v", second)
	}

	entry := findAuditEntry(t, audit, auditentities.KindModification)
	if entry.Action != auditentities.ActionLinkArtifacts {
		t.Fatalf("expected link recorded as modification, got %q", entry.Action)
	}
}

func TestLinkArtifactsSurfacesPersistFailure(t *testing.T) {
	module, audit := newTraceabilityFixture(t)
	seedRequirement(module, "REQ-1")
	saveErr := errors.New("connection reset by peer")
	module.Store.SaveErr = saveErr

	_, err := module.Handler.LinkArtifactsHandler(context.Background(), caller(t, "dev-1", "developer"), "REQ-1", httptransport.LinkArtifactsRequest{
		Identifiers: map[string][]string{"story": {"US-2"}},
	})
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected store failure surfaced, got %v", err)
	}

	entries, listErr := audit.Store.ListEntries(context.Background())
	if listErr != nil {
		t.Fatalf("list audit entries failed: %v", listErr)
	}
	for _, entry := range entries {
		if entry.Kind == auditentities.KindModification {
			t.Fatalf("failed save must not produce a modification entry, got %+v", entry)
		}
	}
}

func TestUpdateFlagsSurfacesPersistFailure(t *testing.T) {
	module, audit := newTraceabilityFixture(t)
	seedRequirement(module, "REQ-1")
	saveErr := errors.New("connection reset by peer")
	module.Store.SaveErr = saveErr
	failed := true

	_, err := module.Handler.UpdateFlagsHandler(context.Background(), caller(t, "tester-1", "tester"), "REQ-1", httptransport.UpdateFlagsRequest{
		HasFailedTests: &failed,
	})
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected store failure surfaced, got %v", err)
	}

	entries, listErr := audit.Store.ListEntries(context.Background())
	if listErr != nil {
		t.Fatalf("list audit entries failed: %v", listErr)
	}
	for _, entry := range entries {
		if entry.Kind == auditentities.KindModification {
			t.Fatalf("failed save must not produce a modification entry, got %+v", entry)
		}
	}
}

func TestUpdateFlagsPartialUpdate(t *testing.T) {
	module, _ := newTraceabilityFixture(t)
	seedRequirement(module, "REQ-1")
	failed := true

	updated, err := module.Handler.UpdateFlagsHandler(context.Background(), caller(t, "tester-1", "tester"), "REQ-1", httptransport.UpdateFlagsRequest{
		HasFailedTests: &failed,
	})
	if err != nil {
		t.Fatalf("update flags failed: %v", err)
	}
	if !updated.HasFailedTests {
		t.Fatalf("expected failed-tests flag set")
	}
	if updated.HasDeploymentRollback {
		t.Fatalf("untouched flag must keep its stored value")
	}
	if updated.UpdatedBy != "tester-1" {
		t.Fatalf("expected updater stamped, got %q", updated.UpdatedBy)
	}
}

func TestUpdateFlagsRequiresAtLeastOneFlag(t *testing.T) {
	module, _ := newTraceabilityFixture(t)
	seedRequirement(module, "REQ-1")

	_, err := module.Handler.UpdateFlagsHandler(context.Background(), caller(t, "tester-1", "tester"), "REQ-1", httptransport.UpdateFlagsRequest{})
	if !errors.Is(err, domainerrors.ErrNoFlagsSupplied) {
		t.Fatalf("expected no-flags error, got %v", err)
	}
}

func TestReportDerivesFailedTestsFromEvidence(t *testing.T) {
	module, _ := newTraceabilityFixture(t)
	module.Store.Seed(entities.Requirement{
		RequirementID: "REQ-1",
		Title:         "User login",
		Status:        "done",
		TestCaseIDs:   []string{"TC-1", "TC-2"},
		CreatedAt:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	})
	module.Sources[entities.KindTestCase].Put("TC-1", entities.RawArtifact{Title: "Login happy path", Outcome: "passed"})
	module.Sources[entities.KindTestCase].Put("TC-2", entities.RawArtifact{Title: "Login lockout", Outcome: "failed"})

	report, err := module.Handler.GenerateReportHandler(context.Background(), caller(t, "stakeholder-1", "stakeholder"))
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(report.Rows))
	}
	row := report.Rows[0]
	if !row.HasFailedTests {
		t.Fatalf("expected failed-tests flag derived from live evidence")
	}
	if row.HasDeploymentRollback {
		t.Fatalf("no deployments linked, rollback flag must stay false")
	}
	if len(row.TestResults) != 2 {
		t.Fatalf("expected both test results in the row, got %d", len(row.TestResults))
	}
}

func TestReportNeverClearsStoredFlag(t *testing.T) {
	module, _ := newTraceabilityFixture(t)
	module.Store.Seed(entities.Requirement{
		RequirementID:  "REQ-1",
		Title:          "User login",
		TestCaseIDs:    []string{"TC-1"},
		HasFailedTests: true,
		CreatedAt:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	})
	module.Sources[entities.KindTestCase].Put("TC-1", entities.RawArtifact{Title: "Login happy path", Outcome: "passed"})

	report, err := module.Handler.GenerateReportHandler(context.Background(), caller(t, "compliance-1", "compliance"))
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !report.Rows[0].HasFailedTests {
		t.Fatalf("stored flag must not be cleared by passing upstream data")
	}
}

func TestMatrixIsolatesFailedKind(t *testing.T) {
	module, _ := newTraceabilityFixture(t)
	module.Store.Seed(entities.Requirement{
		RequirementID: "REQ-1",
		Title:         "User login",
		UserStoryIDs:  []string{"US-1"},
		CodeCommitIDs: []string{"abc123"},
		CreatedAt:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	})
	module.Sources[entities.KindStory].Put("US-1", entities.RawArtifact{Title: "Login story", Status: "done"})
	module.Sources[entities.KindCommit].Err = errors.New("source host unavailable")

	matrix, err := module.Handler.GetMatrixHandler(context.Background(), caller(t, "casual-viewer", "viewer"))
	if err != nil {
		t.Fatalf("matrix failed: %v", err)
	}
	if len(matrix.Requirements) != 1 {
		t.Fatalf("expected one requirement, got %d", len(matrix.Requirements))
	}
	artifacts := matrix.Requirements[0].Artifacts
	if len(artifacts["story"]) != 1 {
		t.Fatalf("healthy kind must survive, got %+v", artifacts["story"])
	}
	if len(artifacts["commit"]) != 0 {
		t.Fatalf("failed kind must degrade to empty, got %+v", artifacts["commit"])
	}
}

func TestCreateRequirementAdminOnly(t *testing.T) {
	module, audit := newTraceabilityFixture(t)

	created, err := module.Handler.CreateRequirementHandler(context.Background(), caller(t, "admin-1", "admin"), httptransport.CreateRequirementRequest{
		Title:    "Password reset",
		Priority: "medium",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.RequirementID == "" {
		t.Fatalf("expected generated requirement id")
	}
	if created.CreatedBy != "admin-1" {
		t.Fatalf("expected creator stamped, got %q", created.CreatedBy)
	}

	_, err = module.Handler.CreateRequirementHandler(context.Background(), caller(t, "dev-1", "developer"), httptransport.CreateRequirementRequest{
		Title: "Rogue requirement",
	})
	if _, ok := accesserrors.IsAccessDenied(err); !ok {
		t.Fatalf("expected developer denied, got %v", err)
	}

	entry := findAuditEntry(t, audit, auditentities.KindModification)
	if entry.Action != auditentities.ActionCreateRequirement {
		t.Fatalf("expected creation audited, got %q", entry.Action)
	}
}
