package models

import "gorm.io/gorm"

type Label struct {
	gorm.Model

	Name    string `gorm:"not null;uniqueIndex:idx_label_board"`
	Color   string `gorm:"not null;uniqueIndex:idx_label_board"`
	BoardID uint   `gorm:"not null;index;uniqueIndex:idx_label_board"`

	// Relationships
	Board      Board       `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TaskLabels []TaskLabel `gorm:"foreignKey:LabelID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
