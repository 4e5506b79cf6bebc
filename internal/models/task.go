package models

import (
	"time"

	"gorm.io/gorm"
)

// Task status constants
const (
	TaskStatusBacklog    = "BACKLOG"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusBlocked    = "BLOCKED"
	TaskStatusDone       = "DONE"
)

// Task priority constants, P0 is most urgent
const (
	PriorityP0 = "P0"
	PriorityP1 = "P1"
	PriorityP2 = "P2"
	PriorityP3 = "P3"
)

// Priorities lists every valid priority value, most urgent first.
var Priorities = []string{PriorityP0, PriorityP1, PriorityP2, PriorityP3}

// DefaultOutstandingStatuses are the statuses a digest reports when a
// schedule has no explicit configuration.
var DefaultOutstandingStatuses = []string{TaskStatusBacklog, TaskStatusInProgress, TaskStatusBlocked}

// PriorityRank returns a sortable rank for a priority value (P0 first).
// Unknown values sort after P3.
func PriorityRank(priority string) int {
	for i, p := range Priorities {
		if p == priority {
			return i
		}
	}
	return len(Priorities)
}

// Task represents a single unit of work within a project
type Task struct {
	gorm.Model
	UserID      uint    `gorm:"not null;index:idx_tasks_user_status,priority:1"`
	User        User    `gorm:"constraint:OnDelete:CASCADE;"`
	ProjectID   uint    `gorm:"not null;index"`
	Project     Project `gorm:"constraint:OnDelete:CASCADE;"`
	Title       string  `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Status      string  `gorm:"not null;default:'BACKLOG';index:idx_tasks_user_status,priority:2"`
	Priority    string  `gorm:"not null;default:'P2'"`
	DueDate     *time.Time
	CompletedAt *time.Time
}
