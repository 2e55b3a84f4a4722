package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	domainerrors "reqtrace/contexts/traceability/requirement-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolationCode = "23505"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) ListRequirements(ctx context.Context) ([]entities.Requirement, error) {
	var rows []requirementModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Requirement, 0, len(rows))
	for _, row := range rows {
		requirement, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, requirement)
	}
	return items, nil
}

func (r *Repository) GetRequirement(ctx context.Context, requirementID string) (entities.Requirement, error) {
	var row requirementModel
	err := r.db.WithContext(ctx).
		Where("requirement_id = ?", requirementID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Requirement{}, domainerrors.ErrRequirementNotFound
		}
		return entities.Requirement{}, err
	}
	return row.toEntity()
}

// SaveRequirement is a single-record upsert. Concurrent writers to the same
// requirement race here and the last write wins.
func (r *Repository) SaveRequirement(ctx context.Context, requirement entities.Requirement) error {
	row, err := fromEntity(requirement)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "requirement_id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domainerrors.ErrRequirementIDTaken
		}
		return err
	}
	return nil
}

type requirementModel struct {
	RequirementID         string    `gorm:"column:requirement_id;primaryKey"`
	Title                 string    `gorm:"column:title"`
	Description           string    `gorm:"column:description"`
	Priority              string    `gorm:"column:priority"`
	Status                string    `gorm:"column:status"`
	UserStoryIDs          string    `gorm:"column:user_story_ids"`
	TaskIDs               string    `gorm:"column:task_ids"`
	TestCaseIDs           string    `gorm:"column:test_case_ids"`
	CodeCommitIDs         string    `gorm:"column:code_commit_ids"`
	DeploymentIDs         string    `gorm:"column:deployment_ids"`
	HasFailedTests        bool      `gorm:"column:has_failed_tests"`
	HasDeploymentRollback bool      `gorm:"column:has_deployment_rollback"`
	CreatedBy             string    `gorm:"column:created_by"`
	UpdatedBy             string    `gorm:"column:updated_by"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (requirementModel) TableName() string { return "requirements" }

func (m requirementModel) toEntity() (entities.Requirement, error) {
	requirement := entities.Requirement{
		RequirementID:         m.RequirementID,
		Title:                 m.Title,
		Description:           m.Description,
		Priority:              m.Priority,
		Status:                m.Status,
		HasFailedTests:        m.HasFailedTests,
		HasDeploymentRollback: m.HasDeploymentRollback,
		CreatedBy:             m.CreatedBy,
		UpdatedBy:             m.UpdatedBy,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}

	for _, field := range []struct {
		raw    string
		target *[]string
	}{
		{m.UserStoryIDs, &requirement.UserStoryIDs},
		{m.TaskIDs, &requirement.TaskIDs},
		{m.TestCaseIDs, &requirement.TestCaseIDs},
		{m.CodeCommitIDs, &requirement.CodeCommitIDs},
		{m.DeploymentIDs, &requirement.DeploymentIDs},
	} {
		ids, err := decodeIDs(field.raw)
		if err != nil {
			return entities.Requirement{}, err
		}
		*field.target = ids
	}
	return requirement, nil
}

func fromEntity(requirement entities.Requirement) (requirementModel, error) {
	model := requirementModel{
		RequirementID:         requirement.RequirementID,
		Title:                 requirement.Title,
		Description:           requirement.Description,
		Priority:              requirement.Priority,
		Status:                requirement.Status,
		HasFailedTests:        requirement.HasFailedTests,
		HasDeploymentRollback: requirement.HasDeploymentRollback,
		CreatedBy:             requirement.CreatedBy,
		UpdatedBy:             requirement.UpdatedBy,
		CreatedAt:             requirement.CreatedAt,
		UpdatedAt:             requirement.UpdatedAt,
	}

	for _, field := range []struct {
		ids    []string
		target *string
	}{
		{requirement.UserStoryIDs, &model.UserStoryIDs},
		{requirement.TaskIDs, &model.TaskIDs},
		{requirement.TestCaseIDs, &model.TestCaseIDs},
		{requirement.CodeCommitIDs, &model.CodeCommitIDs},
		{requirement.DeploymentIDs, &model.DeploymentIDs},
	} {
		encoded, err := encodeIDs(field.ids)
		if err != nil {
			return requirementModel{}, err
		}
		*field.target = encoded
	}
	return model, nil
}

func encodeIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeIDs(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
