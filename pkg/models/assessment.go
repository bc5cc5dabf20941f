package models

import (
	"time"

	"github.com/google/uuid"
)

// Assessment section constants. Each checklist item belongs to one section.
const (
	SectionPrerequisites = "prerequisites"
	SectionTechnical     = "technical"
)

// ValidSections contains all valid assessment sections.
var ValidSections = []string{SectionPrerequisites, SectionTechnical}

// IsValidSection checks if the given section is valid.
func IsValidSection(section string) bool {
	for _, s := range ValidSections {
		if s == section {
			return true
		}
	}
	return false
}

// EvidenceFile is an attached evidence document (image or PDF),
// stored inline as base64 with metadata.
type EvidenceFile struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     string `json:"data"` // base64
}

// Evaluation is the optional result of scoring an item's response.
type Evaluation struct {
	Score       int       `json:"score"`
	Feedback    string    `json:"feedback"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// AssessmentItem is one checklist requirement's tracked state within a
// profile. Met is tri-state: nil means not yet answered.
type AssessmentItem struct {
	ID               uuid.UUID      `json:"id"`
	ProfileID        uuid.UUID      `json:"profile_id"`
	UserID           uuid.UUID      `json:"user_id"`
	Section          string         `json:"section"`
	ItemID           string         `json:"item_id"`
	Category         string         `json:"category"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Mandatory        bool           `json:"mandatory"`
	EvidenceRequired string         `json:"evidence_required,omitempty"`
	Met              *bool          `json:"met"`
	Response         string         `json:"response,omitempty"`
	Evidence         []EvidenceFile `json:"evidence,omitempty"`
	Evaluation       *Evaluation    `json:"evaluation,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Completed reports whether the item has been answered either way.
func (a *AssessmentItem) Completed() bool {
	return a.Met != nil
}
