package httptransport

import "time"

// ErrorResponse is the low-detail error payload for traceability endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ArtifactDTO is one normalized external artifact.
type ArtifactDTO struct {
	ExternalID string `json:"external_id"`
	DisplayKey string `json:"display_key,omitempty"`
	Title      string `json:"title,omitempty"`
	Status     string `json:"status,omitempty"`
	Owner      string `json:"owner,omitempty"`
	URL        string `json:"url,omitempty"`
	Failed     bool   `json:"failed,omitempty"`
	RolledBack bool   `json:"rolled_back,omitempty"`
}

// RequirementDTO mirrors the stored requirement record.
type RequirementDTO struct {
	RequirementID         string    `json:"requirement_id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description,omitempty"`
	Priority              string    `json:"priority,omitempty"`
	Status                string    `json:"status,omitempty"`
	UserStoryIDs          []string  `json:"user_story_ids"`
	TaskIDs               []string  `json:"task_ids"`
	TestCaseIDs           []string  `json:"test_case_ids"`
	CodeCommitIDs         []string  `json:"code_commit_ids"`
	DeploymentIDs         []string  `json:"deployment_ids"`
	HasFailedTests        bool      `json:"has_failed_tests"`
	HasDeploymentRollback bool      `json:"has_deployment_rollback"`
	CreatedBy             string    `json:"created_by,omitempty"`
	UpdatedBy             string    `json:"updated_by,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// EnrichedRequirementResponse is one requirement plus normalized artifacts
// keyed by kind.
type EnrichedRequirementResponse struct {
	Requirement RequirementDTO           `json:"requirement"`
	Artifacts   map[string][]ArtifactDTO `json:"artifacts"`
}

// MatrixResponse is the full traceability matrix.
type MatrixResponse struct {
	Requirements []EnrichedRequirementResponse `json:"requirements"`
}

// CreateRequirementRequest registers a new requirement.
type CreateRequirementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// LinkArtifactsRequest unions identifier lists into a requirement, keyed by
// artifact kind.
type LinkArtifactsRequest struct {
	Identifiers map[string][]string `json:"identifiers"`
}

// UpdateFlagsRequest is a partial update; an absent flag is left untouched.
type UpdateFlagsRequest struct {
	HasFailedTests        *bool `json:"has_failed_tests,omitempty"`
	HasDeploymentRollback *bool `json:"has_deployment_rollback,omitempty"`
}

// ReportRowDTO is one compliance report line.
type ReportRowDTO struct {
	RequirementID         string        `json:"requirement_id"`
	Title                 string        `json:"title"`
	Status                string        `json:"status,omitempty"`
	HasFailedTests        bool          `json:"has_failed_tests"`
	HasDeploymentRollback bool          `json:"has_deployment_rollback"`
	TestResults           []ArtifactDTO `json:"test_results"`
	Deployments           []ArtifactDTO `json:"deployments"`
}

// ReportResponse is the full compliance report.
type ReportResponse struct {
	Rows []ReportRowDTO `json:"rows"`
}
