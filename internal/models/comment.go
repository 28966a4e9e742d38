package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	Content string `gorm:"not null"`
	TaskID  uint   `gorm:"not null;index"`
	UserID  uint   `gorm:"not null;index"` // author

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
