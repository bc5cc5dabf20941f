package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// System log operation constants.
const (
	LogOpBackup  = "backup"
	LogOpRestore = "restore"
	LogOpDelete  = "delete"
	LogOpReset   = "reset"
)

// System log status constants.
const (
	LogStatusSuccess = "success"
	LogStatusFailed  = "failed"
	LogStatusPartial = "partial"
)

// SystemLogEntry records one backup/restore/delete/reset action, its
// initiator, scope, and outcome. The log is append-only.
type SystemLogEntry struct {
	ID              uuid.UUID       `json:"id"`
	Operation       string          `json:"operation"`
	TargetType      string          `json:"target_type"`
	TargetID        string          `json:"target_id,omitempty"`
	PerformedBy     uuid.UUID       `json:"performed_by"`
	Details         json.RawMessage `json:"details,omitempty"`
	AffectedRecords int             `json:"affected_records"`
	Status          string          `json:"status"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
