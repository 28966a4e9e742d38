package models

import "gorm.io/gorm"

type Board struct {
	gorm.Model

	Name        string `gorm:"not null;uniqueIndex:idx_board_name_owner"`
	Cover       string
	Description string
	Visibility  string `gorm:"not null;default:private"` // "private" or "public"
	OwnerID     uint   `gorm:"not null;index;uniqueIndex:idx_board_name_owner"`

	// Relationships
	Owner       User              `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []BoardMembership `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invitations []Invitation      `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Lists       []List            `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks       []Task            `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Labels      []Label           `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
