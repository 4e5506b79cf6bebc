package models

import (
	"gorm.io/gorm"
)

// User represents an application user who owns projects, tasks and an email schedule
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null"`
	Name     string `gorm:"not null;default:''"`
	Timezone string `gorm:"not null;default:'UTC'"`

	// Associations
	Projects       []Project       `gorm:"constraint:OnDelete:CASCADE;"`
	Tasks          []Task          `gorm:"constraint:OnDelete:CASCADE;"`
	EmailSchedules []EmailSchedule `gorm:"constraint:OnDelete:CASCADE;"`
	EmailLogs      []EmailLog      `gorm:"constraint:OnDelete:CASCADE;"`
}
