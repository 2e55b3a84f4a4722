package entities

import (
	"strings"

	domainerrors "reqtrace/contexts/traceability/requirement-service/domain/errors"
)

// ArtifactKind names one of the five external artifact categories.
type ArtifactKind string

const (
	KindStory      ArtifactKind = "story"
	KindTask       ArtifactKind = "task"
	KindTestCase   ArtifactKind = "test-case"
	KindCommit     ArtifactKind = "commit"
	KindDeployment ArtifactKind = "deployment"
)

// AllKinds lists every artifact kind in presentation order.
func AllKinds() []ArtifactKind {
	return []ArtifactKind{KindStory, KindTask, KindTestCase, KindCommit, KindDeployment}
}

// ParseArtifactKind validates a raw kind value.
func ParseArtifactKind(raw string) (ArtifactKind, error) {
	switch ArtifactKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindStory:
		return KindStory, nil
	case KindTask:
		return KindTask, nil
	case KindTestCase:
		return KindTestCase, nil
	case KindCommit:
		return KindCommit, nil
	case KindDeployment:
		return KindDeployment, nil
	default:
		return "", domainerrors.ErrInvalidArtifactKind
	}
}

// RawArtifact is the source-specific record shape the aggregator expects
// back from an upstream client: one record per identifier, a superset of the
// upstream field names the normalizer maps.
type RawArtifact struct {
	ExternalID string
	DisplayKey string
	Title      string
	Status     string
	Owner      string
	Author     string
	Outcome    string
	URL        string
}

// EnrichedArtifact is the normalized, source-tagged view of one external
// record. Produced transiently by aggregation and never persisted.
type EnrichedArtifact struct {
	ExternalID string
	DisplayKey string
	Title      string
	Status     string
	Owner      string
	URL        string

	// Classification outcomes for test-case and deployment kinds.
	Failed     bool
	RolledBack bool
}

// EnrichedRequirement is a requirement plus its normalized artifacts, keyed
// by kind. A kind whose upstream failed carries an empty list.
type EnrichedRequirement struct {
	Requirement Requirement
	Artifacts   map[ArtifactKind][]EnrichedArtifact
}

// ReportRow is one compliance report line.
type ReportRow struct {
	RequirementID         string
	Title                 string
	Status                string
	HasFailedTests        bool
	HasDeploymentRollback bool
	TestResults           []EnrichedArtifact
	Deployments           []EnrichedArtifact
}
