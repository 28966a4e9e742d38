package models

import "gorm.io/gorm"

type TaskLabel struct {
	gorm.Model

	TaskID  uint `gorm:"not null;uniqueIndex:idx_task_label"`
	LabelID uint `gorm:"not null;uniqueIndex:idx_task_label"`

	// Relationships
	Task  Task  `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Label Label `gorm:"foreignKey:LabelID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
