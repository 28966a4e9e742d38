package models

import "gorm.io/gorm"

type List struct {
	gorm.Model

	Name    string `gorm:"not null;uniqueIndex:idx_list_name_board"`
	BoardID uint   `gorm:"not null;index;uniqueIndex:idx_list_name_board"`

	// Relationships
	Board Board  `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks []Task `gorm:"foreignKey:ListID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
