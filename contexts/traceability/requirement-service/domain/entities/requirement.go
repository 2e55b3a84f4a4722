package entities

import "time"

// Requirement is the anchor entity for traceability. The five identifier
// lists reference external systems; duplicates are removed on every merge
// while first-occurrence order is preserved.
type Requirement struct {
	RequirementID string
	Title         string
	Description   string
	Priority      string
	Status        string

	UserStoryIDs  []string
	TaskIDs       []string
	TestCaseIDs   []string
	CodeCommitIDs []string
	DeploymentIDs []string

	// Derived risk flags. Set by explicit administrative override or
	// recomputed from aggregation; reports OR them with live evidence.
	HasFailedTests        bool
	HasDeploymentRollback bool

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdentifiersFor returns the stored identifier list for an artifact kind.
func (r Requirement) IdentifiersFor(kind ArtifactKind) []string {
	switch kind {
	case KindStory:
		return r.UserStoryIDs
	case KindTask:
		return r.TaskIDs
	case KindTestCase:
		return r.TestCaseIDs
	case KindCommit:
		return r.CodeCommitIDs
	case KindDeployment:
		return r.DeploymentIDs
	default:
		return nil
	}
}

// SetIdentifiers replaces the stored identifier list for an artifact kind.
func (r *Requirement) SetIdentifiers(kind ArtifactKind, ids []string) {
	switch kind {
	case KindStory:
		r.UserStoryIDs = ids
	case KindTask:
		r.TaskIDs = ids
	case KindTestCase:
		r.TestCaseIDs = ids
	case KindCommit:
		r.CodeCommitIDs = ids
	case KindDeployment:
		r.DeploymentIDs = ids
	}
}
