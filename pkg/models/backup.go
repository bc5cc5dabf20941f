package models

import (
	"time"

	"github.com/google/uuid"
)

// Backup type constants.
const (
	BackupTypeFull      = "full"
	BackupTypeSelective = "selective"
)

// BackupRecord is the bookkeeping row for one JSON snapshot on disk.
// Records are never mutated after insert.
type BackupRecord struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	FilePath  string         `json:"file_path"`
	FileSize  int64          `json:"file_size"`
	CreatedBy uuid.UUID      `json:"created_by"`
	Metadata  BackupMetadata `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// BackupMetadata is the metadata block of a backup file, also stored on
// the backup record for listing without opening the file.
type BackupMetadata struct {
	Version           string             `json:"version"`
	CreatedAt         time.Time          `json:"createdAt"`
	TotalUsers        int                `json:"totalUsers"`
	TotalAssessments  int                `json:"totalAssessments"`
	TotalCacheItems   int                `json:"totalCacheItems"`
	BackupType        string             `json:"backupType"`
	SelectionCriteria *SelectionCriteria `json:"selectionCriteria,omitempty"`
}

// BackupData is the data block of a backup file.
type BackupData struct {
	Users                []User           `json:"users"`
	Profiles             []Profile        `json:"profiles"`
	AssessmentData       []AssessmentItem `json:"assessmentData"`
	AdviceCache          []CacheEntry     `json:"adviceCache"`
	VirtualEvidenceCache []CacheEntry     `json:"virtualEvidenceCache"`
	ItemQA               []QAEntry        `json:"itemQa"`
}

// BackupFile is the full on-disk shape of one snapshot.
type BackupFile struct {
	Metadata BackupMetadata `json:"metadata"`
	Data     BackupData     `json:"data"`
}

// BackupFileVersion is written into every snapshot's metadata block.
const BackupFileVersion = "1.0"

// SelectionCriteria filters selective backup and selective delete
// operations. All supplied criteria are AND-combined.
type SelectionCriteria struct {
	DateFrom     *time.Time  `json:"dateFrom,omitempty"`
	DateTo       *time.Time  `json:"dateTo,omitempty"`
	UserIDs      []uuid.UUID `json:"userIds,omitempty"`
	Sections     []string    `json:"assessmentTypes,omitempty"`
	IncludeCache bool        `json:"includeCache,omitempty"`
	DeleteUsers  bool        `json:"deleteUsers,omitempty"`
}
