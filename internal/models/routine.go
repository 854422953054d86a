package models

import (
	"time"

	"github.com/google/uuid"
)

// Identifier prefixes. Every entity id is prefix + UUID so an identifier
// alone tells you what kind of record it names.
const (
	RoutineIDPrefix = "rtn_"
	SessionIDPrefix = "ses_"
)

// Routine represents a named, timezone-scoped activity definition
type Routine struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string     `gorm:"not null;index" json:"name"`
	Timezone   string     `gorm:"not null" json:"timezone"`
	Rule       string     `gorm:"not null" json:"rule"`
	ArchivedAt *time.Time `json:"archived_at"`

	// Relationships
	Sessions []Session `gorm:"foreignKey:RoutineID" json:"-"`
}

// Archived reports whether the routine has been soft-disabled.
func (r *Routine) Archived() bool {
	return r.ArchivedAt != nil
}

// NewRoutineID returns a fresh routine identifier
func NewRoutineID() string {
	return RoutineIDPrefix + uuid.NewString()
}

// NewSessionID returns a fresh session identifier
func NewSessionID() string {
	return SessionIDPrefix + uuid.NewString()
}
