package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Cadence constants
const (
	CadenceDaily  = "DAILY"
	CadenceWeekly = "WEEKLY"
)

// EmailSchedule configures when a user's recurring task digest is sent.
// LastSentAt is the watermark: the instant of the last completed fire
// decision, used to suppress duplicate sends within the same period. Once
// set it only moves forward.
type EmailSchedule struct {
	gorm.Model
	UserID  uint `gorm:"not null;index"`
	User    User `gorm:"constraint:OnDelete:CASCADE;"`
	Enabled bool `gorm:"not null;default:false"`
	Cadence string `gorm:"not null;default:'DAILY'"`
	// DayOfWeek is 0=Sunday..6=Saturday; meaningful only for WEEKLY cadence.
	DayOfWeek *int
	// TimeOfDay is 24-hour "HH:MM" wall-clock text interpreted in Timezone.
	TimeOfDay string `gorm:"not null;default:'08:00'"`
	Timezone  string `gorm:"not null;default:'UTC'"`
	// IncludeProjectIDs is a JSON array of project IDs; empty means all
	// non-archived projects.
	IncludeProjectIDs datatypes.JSON `gorm:"type:jsonb"`
	// OutstandingStatuses is a JSON array of task statuses to report.
	OutstandingStatuses datatypes.JSON `gorm:"type:jsonb"`
	LastSentAt          *time.Time
}

// ProjectFilter decodes IncludeProjectIDs into a slice of project IDs.
// Malformed or empty stored JSON yields nil, meaning no project restriction.
func (s *EmailSchedule) ProjectFilter() []uint {
	if len(s.IncludeProjectIDs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(s.IncludeProjectIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// StatusFilter decodes OutstandingStatuses, falling back to the default
// outstanding set when unset or malformed.
func (s *EmailSchedule) StatusFilter() []string {
	if len(s.OutstandingStatuses) == 0 {
		return DefaultOutstandingStatuses
	}
	var statuses []string
	if err := json.Unmarshal(s.OutstandingStatuses, &statuses); err != nil || len(statuses) == 0 {
		return DefaultOutstandingStatuses
	}
	return statuses
}
