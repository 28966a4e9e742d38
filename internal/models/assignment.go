package models

import "gorm.io/gorm"

// Assignment marks a board member as assigned to a task.
type Assignment struct {
	gorm.Model

	TaskID uint `gorm:"not null;uniqueIndex:idx_assignment_task_user"`
	UserID uint `gorm:"not null;uniqueIndex:idx_assignment_task_user"`

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
