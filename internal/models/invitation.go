package models

import "gorm.io/gorm"

// Invitation is a pending membership offer. It expires 24 hours after
// creation; expiry is computed from CreatedAt, never stored.
type Invitation struct {
	gorm.Model

	BoardID uint   `gorm:"not null;uniqueIndex:idx_invitation_board_user"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_invitation_board_user"`
	Token   string `gorm:"not null;index"`

	// Relationships
	Board Board `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
