package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"reqtrace/contexts/compliance/audit-service/domain/entities"
	domainerrors "reqtrace/contexts/compliance/audit-service/domain/errors"
	"reqtrace/contexts/compliance/audit-service/ports"
)

// ExportFormat selects the export serialization.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat validates a raw format value.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case ExportJSON, "":
		return ExportJSON, nil
	case ExportCSV:
		return ExportCSV, nil
	default:
		return "", domainerrors.ErrUnsupportedExportFormat
	}
}

type exportedEntry struct {
	EntryID       string         `json:"entry_id"`
	Kind          string         `json:"kind"`
	Action        string         `json:"action"`
	Username      string         `json:"username,omitempty"`
	Role          string         `json:"role,omitempty"`
	SourceAddress string         `json:"source_address,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
	RecordedAt    time.Time      `json:"recorded_at"`
}

// Exporter serializes the full audit trail, newest entry first. Any failure
// yields an empty payload and a diagnostic log line; export never raises.
type Exporter struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// Export returns the serialized audit trail in the requested format.
func (e Exporter) Export(ctx context.Context, format ExportFormat) string {
	logger := ResolveLogger(e.Logger)

	entries, err := e.Repository.ListEntries(ctx)
	if err != nil {
		logger.Error("audit export read failed",
			"event", "audit_export_read_failed",
			"module", "compliance/audit-service",
			"layer", "application",
			"format", string(format),
			"error", err.Error(),
		)
		return ""
	}

	switch format {
	case ExportCSV:
		return exportCSV(entries)
	default:
		return exportJSON(entries, logger)
	}
}

func exportJSON(entries []entities.Entry, logger *slog.Logger) string {
	items := make([]exportedEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, exportedEntry{
			EntryID:       entry.EntryID,
			Kind:          string(entry.Kind),
			Action:        entry.Action,
			Username:      entry.Username,
			Role:          entry.RoleName,
			SourceAddress: entry.SourceAddress,
			Details:       entry.Details,
			RecordedAt:    entry.RecordedAt,
		})
	}

	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		logger.Error("audit export marshal failed",
			"event", "audit_export_marshal_failed",
			"module", "compliance/audit-service",
			"layer", "application",
			"error", err.Error(),
		)
		return ""
	}
	return string(payload)
}

// exportCSV quotes every field unconditionally and doubles embedded quotes,
// per the compliance export contract. encoding/csv quotes only on demand,
// which is why this writer is hand-rolled.
func exportCSV(entries []entities.Entry) string {
	var b strings.Builder
	writeCSVRow(&b, []string{"entry_id", "kind", "action", "username", "role", "source_address", "details", "recorded_at"})

	for _, entry := range entries {
		details := ""
		if len(entry.Details) > 0 {
			if raw, err := json.Marshal(entry.Details); err == nil {
				details = string(raw)
			}
		}
		writeCSVRow(&b, []string{
			entry.EntryID,
			string(entry.Kind),
			entry.Action,
			entry.Username,
			entry.RoleName,
			entry.SourceAddress,
			details,
			entry.RecordedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
