// Package access answers who may read, write or administer a board.
// Ownership and membership role collapse into a single Role value so the
// owner-is-always-admin rule lives in exactly one place.
package access

import (
	"errors"

	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/types"
	"gorm.io/gorm"
)

type Role int

const (
	RoleNone Role = iota
	RoleMember
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	default:
		return "none"
	}
}

// Resolve looks up the user's relationship to a board. A missing board
// resolves to RoleNone without an error; board existence is the caller's
// concern. Results are never cached, roles can change between requests.
func Resolve(db *gorm.DB, userID, boardID uint) (Role, error) {
	var board models.Board

	if err := db.Select("id", "owner_id").Where("id = ?", boardID).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}

	if board.OwnerID == userID {
		return RoleOwner, nil
	}

	var membership models.BoardMembership

	err := db.Where("board_id = ? AND user_id = ?", boardID, userID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}

	if membership.Role == types.RoleAdmin {
		return RoleAdmin, nil
	}

	return RoleMember, nil
}

// IsMember reports whether the user may read and write board-scoped
// resources. Any negative condition, including a query error or a
// nonexistent board, is false.
func IsMember(db *gorm.DB, userID, boardID uint) bool {
	role, err := Resolve(db, userID, boardID)

	if err != nil {
		return false
	}

	return role >= RoleMember
}

// IsAdmin reports whether the user may administer the board: update its
// metadata, invite and remove members, and force-delete others' content.
func IsAdmin(db *gorm.DB, userID, boardID uint) bool {
	role, err := Resolve(db, userID, boardID)

	if err != nil {
		return false
	}

	return role >= RoleAdmin
}
