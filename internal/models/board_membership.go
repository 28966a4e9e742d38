package models

import "gorm.io/gorm"

// BoardMembership links a user to a board they are not the owner of.
// The owner never has a membership row; ownership itself grants admin rights.
type BoardMembership struct {
	gorm.Model

	BoardID uint   `gorm:"not null;uniqueIndex:idx_board_member"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_board_member"`
	Role    string `gorm:"not null;default:user"` // "user" or "admin"

	// Relationships
	Board Board `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
