package entities

import "time"

// Kind classifies an audit entry.
type Kind string

const (
	KindAccess             Kind = "access"
	KindModification       Kind = "modification"
	KindUnauthorizedAccess Kind = "unauthorized_access"
)

// Action tokens form a closed but extensible vocabulary. New operations add
// tokens here; existing tokens are never renamed so exports stay comparable.
const (
	ActionUnauthorizedAccess       = "UNAUTHORIZED_ACCESS"
	ActionGetTraceabilityMatrix    = "GET_TRACEABILITY_MATRIX"
	ActionGetRequirement           = "GET_REQUIREMENT"
	ActionRequirementNotFound      = "REQUIREMENT_NOT_FOUND"
	ActionCreateRequirement        = "CREATE_REQUIREMENT"
	ActionLinkArtifacts            = "LINK_ARTIFACTS_TO_REQUIREMENT"
	ActionUpdateRequirementFlags   = "UPDATE_REQUIREMENT_FLAGS"
	ActionGenerateComplianceReport = "GENERATE_COMPLIANCE_REPORT"
	ActionExportAuditLog           = "EXPORT_AUDIT_LOG"
)

// Entry is one append-only audit record. Username, RoleName and SourceAddress
// are empty for entries recorded without an authenticated caller.
type Entry struct {
	EntryID       string
	Kind          Kind
	Action        string
	Username      string
	RoleName      string
	SourceAddress string
	Details       map[string]any
	RecordedAt    time.Time
}
