package errors

import "errors"

var (
	ErrEntryNotFound           = errors.New("audit entry not found")
	ErrDuplicateEntryID        = errors.New("audit entry id already exists")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)
