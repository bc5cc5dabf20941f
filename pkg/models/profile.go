package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a named, independently tracked version of a user's assessment
// answers. At most one profile per user is active at a time.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileSummary is a profile enriched with progress counters for listings.
// CompletedItems counts items with a recorded met decision, whether met or
// not; progress measures how much of the checklist has been assessed, not
// how much of it passes.
type ProfileSummary struct {
	Profile
	TotalItems     int     `json:"total_items"`
	CompletedItems int     `json:"completed_items"`
	CompletionPct  float64 `json:"completion_pct"`
}

// DefaultProfileName is used when migrating legacy, pre-versioning
// assessment rows into the profile model.
const DefaultProfileName = "Default"
