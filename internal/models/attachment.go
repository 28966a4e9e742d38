package models

import "gorm.io/gorm"

type Attachment struct {
	gorm.Model

	Name     string `gorm:"not null;uniqueIndex:idx_attachment_task_name"`
	URL      string `gorm:"not null"`
	Format   string
	PublicID string
	TaskID   uint `gorm:"not null;index;uniqueIndex:idx_attachment_task_name"`
	UserID   uint `gorm:"not null;index"` // uploader

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
