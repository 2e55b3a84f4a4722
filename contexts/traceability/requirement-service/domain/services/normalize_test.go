package services

import (
	"testing"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

func TestNormalizeCommitDefaultsDisplayKeyAndOwner(t *testing.T) {
	artifact := Normalize(entities.KindCommit, entities.RawArtifact{
		ExternalID: "9f8e7d6c5b4a39281706f5e4d3c2b1a098765432",
		Title:      "Fix login redirect",
		Author:     "dev-1",
	}, "success")

	if artifact.DisplayKey != "9f8e7d6c" {
		t.Fatalf("expected short hash display key, got %q", artifact.DisplayKey)
	}
	if artifact.Owner != "dev-1" {
		t.Fatalf("expected author as owner, got %q", artifact.Owner)
	}
}

func TestNormalizeTestCaseOutcomeWinsOverStatus(t *testing.T) {
	artifact := Normalize(entities.KindTestCase, entities.RawArtifact{
		ExternalID: "TC-9",
		Status:     "executed",
		Outcome:    "FAILED",
	}, "success")

	if artifact.Status != "failed" {
		t.Fatalf("expected lowercased outcome as status, got %q", artifact.Status)
	}
	if !artifact.Failed {
		t.Fatalf("expected failed flag set")
	}
}

func TestNormalizeDeploymentFallsBackToStatus(t *testing.T) {
	artifact := Normalize(entities.KindDeployment, entities.RawArtifact{
		ExternalID: "DEP-4",
		Status:     "success",
	}, "success")

	if artifact.RolledBack {
		t.Fatalf("successful deployment must not be classified as rollback")
	}
	if artifact.Status != "success" {
		t.Fatalf("expected status preserved, got %q", artifact.Status)
	}
}
