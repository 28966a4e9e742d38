package models

import "gorm.io/gorm"

// Task carries BoardID denormalized from its list so board-scoped
// queries never need the extra join through lists.
type Task struct {
	gorm.Model

	Title       string  `gorm:"not null"`
	Description string
	Position    float64 `gorm:"not null"`
	Cover       string
	UserID      uint    `gorm:"not null;index"` // creator
	BoardID     uint    `gorm:"not null;index"`
	ListID      uint    `gorm:"not null;index"`

	// Relationships
	User        User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Board       Board        `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	List        List         `gorm:"foreignKey:ListID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignments []Assignment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Attachments []Attachment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments    []Comment    `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TaskLabels  []TaskLabel  `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
