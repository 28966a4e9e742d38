// Package membership removes a member from a board together with every
// trace the member left on that board's tasks.
package membership

import (
	"errors"

	"github.com/thullo-dev/thullo/internal/models"
	"gorm.io/gorm"
)

// ErrNotMember is returned when no membership row exists for the target
// user on the board. Nothing is deleted in that case.
var ErrNotMember = errors.New("user is not a member of this board")

// taskScoped lists the models whose rows hang off a task and carry the
// authoring user's id. Each is purged with the same task-join delete.
var taskScoped = []interface{}{
	&models.Assignment{},
	&models.Attachment{},
	&models.Comment{},
}

// Remove deletes the membership row for (boardID, userID), any pending
// invitation, and the user's assignments, attachments and comments on
// tasks belonging to that board. All writes happen in one transaction;
// any failure rolls back every step. The user's rows on other boards
// are never touched. Deletes bypass gorm's soft delete so the unique
// (board, user) index frees up for a later re-add.
//
// Callers must have already confirmed the board exists, the requester
// is a board admin, and the target is neither the requester nor the
// board owner.
func Remove(db *gorm.DB, boardID, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().Where("board_id = ? AND user_id = ?", boardID, userID).
			Delete(&models.BoardMembership{})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotMember
		}

		if err := tx.Unscoped().Where("board_id = ? AND user_id = ?", boardID, userID).
			Delete(&models.Invitation{}).Error; err != nil {
			return err
		}

		for _, model := range taskScoped {
			// Unscoped so tasks the board already deleted still anchor
			// the purge of their child rows.
			boardTasks := tx.Session(&gorm.Session{NewDB: true}).
				Unscoped().
				Model(&models.Task{}).
				Select("id").
				Where("board_id = ?", boardID)

			if err := tx.Unscoped().Where("user_id = ? AND task_id IN (?)", userID, boardTasks).
				Delete(model).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
