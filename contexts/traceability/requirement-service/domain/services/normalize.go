package services

import (
	"strings"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

const (
	statusFailed   = "failed"
	statusRollback = "rollback"
)

// Normalize maps one raw upstream record into the common enriched shape.
// Unmapped upstream fields are dropped. Test-case and deployment kinds are
// additionally classified into the normalized status vocabulary.
func Normalize(kind entities.ArtifactKind, raw entities.RawArtifact, deploySuccessStatus string) entities.EnrichedArtifact {
	artifact := entities.EnrichedArtifact{
		ExternalID: raw.ExternalID,
		DisplayKey: raw.DisplayKey,
		Title:      raw.Title,
		Status:     raw.Status,
		Owner:      raw.Owner,
		URL:        raw.URL,
	}

	switch kind {
	case entities.KindCommit:
		// Commits identify by hash; the author is the closest owner analogue.
		if artifact.DisplayKey == "" {
			artifact.DisplayKey = shortHash(raw.ExternalID)
		}
		if artifact.Owner == "" {
			artifact.Owner = raw.Author
		}
	case entities.KindTestCase:
		outcome := strings.ToLower(strings.TrimSpace(raw.Outcome))
		if outcome != "" {
			artifact.Status = outcome
		}
		artifact.Failed = outcome == statusFailed
	case entities.KindDeployment:
		outcome := strings.TrimSpace(raw.Outcome)
		if outcome == "" {
			outcome = strings.TrimSpace(raw.Status)
		}
		if !strings.EqualFold(outcome, deploySuccessStatus) {
			artifact.Status = statusRollback
			artifact.RolledBack = true
		} else {
			artifact.Status = outcome
		}
	}
	return artifact
}

func shortHash(hash string) string {
	if len(hash) <= 8 {
		return hash
	}
	return hash[:8]
}
