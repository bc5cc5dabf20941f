package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ArchiveRetention is how long an archived row stays restorable.
const ArchiveRetention = 30 * 24 * time.Hour

// ArchiveEntry is a soft-deleted row's full content, retained for a
// bounded restore window independent of backup JSON files.
type ArchiveEntry struct {
	ID              uuid.UUID       `json:"id"`
	TableName       string          `json:"table_name"`
	RowID           string          `json:"row_id"`
	RowData         json.RawMessage `json:"row_data"`
	DeletedBy       uuid.UUID       `json:"deleted_by"`
	DeletedAt       time.Time       `json:"deleted_at"`
	RestoreDeadline time.Time       `json:"restore_deadline"`
	RestoredAt      *time.Time      `json:"restored_at,omitempty"`
	RestoredBy      *uuid.UUID      `json:"restored_by,omitempty"`
}
