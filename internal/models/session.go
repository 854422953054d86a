package models

import (
	"time"

	"gorm.io/gorm"
)

// Event kinds. A session's event log must alternate pause, resume, pause, …
// starting with pause; a trailing unmatched pause means the session is
// currently paused.
const (
	EventPause  = "pause"
	EventResume = "resume"
)

// Session represents one timed occurrence of work against a routine
type Session struct {
	ID        string         `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoutineID string     `gorm:"not null;index" json:"routine_id"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Note      string     `json:"note"`

	// Relationships
	Routine Routine        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"routine"`
	Tags    []Tag          `gorm:"many2many:session_tags;" json:"tags"`
	Events  []SessionEvent `gorm:"foreignKey:SessionID" json:"events"`
}

// Stopped reports whether the session has a permanent end instant.
func (s *Session) Stopped() bool {
	return s.EndedAt != nil
}

// SessionEvent is an immutable pause or resume fact. Events are append-only;
// the uint key preserves insertion order for same-instant ties.
type SessionEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID string    `gorm:"not null;index" json:"session_id"`
	Kind      string    `gorm:"not null" json:"kind"`
	At        time.Time `gorm:"not null;index" json:"at"`
}

// Tag represents a session tag
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`

	// Relationships
	Sessions []Session `gorm:"many2many:session_tags;" json:"-"`
}

// SessionTag is the join table for the many-to-many relationship
type SessionTag struct {
	SessionID string `gorm:"primaryKey"`
	TagID     uint   `gorm:"primaryKey"`
}
