package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"reqtrace/contexts/compliance/audit-service/domain/entities"
	domainerrors "reqtrace/contexts/compliance/audit-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) AppendEntry(ctx context.Context, entry entities.Entry) error {
	row, err := fromEntity(entry)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domainerrors.ErrDuplicateEntryID
		}
		return err
	}
	return nil
}

func (r *Repository) ListEntries(ctx context.Context) ([]entities.Entry, error) {
	var rows []auditEntryModel
	if err := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows)
}

func (r *Repository) ListUnpublished(ctx context.Context, limit int) ([]entities.Entry, error) {
	var rows []auditEntryModel
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("recorded_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows)
}

func (r *Repository) MarkPublished(ctx context.Context, entryID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&auditEntryModel{}).
		Where("entry_id = ?", entryID).
		Update("published_at", publishedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEntryNotFound
	}
	return nil
}

type auditEntryModel struct {
	EntryID       string     `gorm:"column:entry_id;primaryKey"`
	Kind          string     `gorm:"column:kind"`
	Action        string     `gorm:"column:action"`
	Username      string     `gorm:"column:username"`
	RoleName      string     `gorm:"column:role_name"`
	SourceAddress string     `gorm:"column:source_address"`
	Details       string     `gorm:"column:details"`
	RecordedAt    time.Time  `gorm:"column:recorded_at"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
}

func (auditEntryModel) TableName() string { return "audit_entries" }

func fromEntity(entry entities.Entry) (auditEntryModel, error) {
	details := ""
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return auditEntryModel{}, err
		}
		details = string(raw)
	}
	return auditEntryModel{
		EntryID:       entry.EntryID,
		Kind:          string(entry.Kind),
		Action:        entry.Action,
		Username:      entry.Username,
		RoleName:      entry.RoleName,
		SourceAddress: entry.SourceAddress,
		Details:       details,
		RecordedAt:    entry.RecordedAt,
	}, nil
}

func toEntities(rows []auditEntryModel) ([]entities.Entry, error) {
	items := make([]entities.Entry, 0, len(rows))
	for _, row := range rows {
		entry := entities.Entry{
			EntryID:       row.EntryID,
			Kind:          entities.Kind(row.Kind),
			Action:        row.Action,
			Username:      row.Username,
			RoleName:      row.RoleName,
			SourceAddress: row.SourceAddress,
			RecordedAt:    row.RecordedAt,
		}
		if row.Details != "" {
			details := map[string]any{}
			if err := json.Unmarshal([]byte(row.Details), &details); err != nil {
				return nil, err
			}
			entry.Details = details
		}
		items = append(items, entry)
	}
	return items, nil
}
