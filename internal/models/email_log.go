package models

import (
	"gorm.io/gorm"
)

// EmailLog is the append-only audit record of every email that reached the
// mail sender. Rows are only ever created, never updated or deleted.
type EmailLog struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index:idx_email_logs_user_created,priority:1"`
	User     User   `gorm:"constraint:OnDelete:CASCADE;"`
	ToEmail  string `gorm:"not null"`
	Subject  string `gorm:"not null"`
	BodyHTML string `gorm:"type:text"`
	BodyText string `gorm:"type:text"`
}
