package models

import (
	"time"

	"github.com/google/uuid"
)

// QAEntry is a per-item question from a user with an optional admin answer.
type QAEntry struct {
	ID         uuid.UUID  `json:"id"`
	ItemID     string     `json:"item_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredBy *uuid.UUID `json:"answered_by,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Answered reports whether the question has received an answer.
func (q *QAEntry) Answered() bool {
	return q.AnsweredAt != nil
}
