package models

import (
	"gorm.io/gorm"
)

// Project groups tasks under a user
type Project struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index"`
	User        User   `gorm:"constraint:OnDelete:CASCADE;"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Archived    bool   `gorm:"not null;default:false"`

	Tasks []Task `gorm:"constraint:OnDelete:CASCADE;"`
}
