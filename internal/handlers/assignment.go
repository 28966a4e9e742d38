package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thullo-dev/thullo/db"
	"github.com/thullo-dev/thullo/internal/access"
	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/utils"
	"gorm.io/gorm"
)

type CreateAssignmentRequest struct {
	TaskID uint `json:"task_id" binding:"required"`
	UserID uint `json:"user_id" binding:"required"`
}

// CreateAssignment assigns a board member to a task.
func CreateAssignment(ctx *gin.Context) {
	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateAssignmentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, body.TaskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	if !access.IsMember(db.DB, currentUserID, task.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	// The assignee must have board access too; assigning an outsider
	// would leave a row the member-removal cascade can never reach.
	if !access.IsMember(db.DB, body.UserID, task.BoardID) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This user is not a member of the board"})
		return
	}

	assignment := models.Assignment{
		TaskID: task.ID,
		UserID: body.UserID,
	}

	if err := db.DB.Create(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This member is already assigned to that task"})
			return
		}
		log.Printf("Failed to create assignment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign member"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, body.UserID).Error; err != nil {
		log.Printf("Failed to load assigned user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign member"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"data": AssignedMemberResponse{
			AssignmentID: assignment.ID,
			ID:           user.ID,
			Username:     user.Username,
			Avatar:       user.Avatar,
		},
	})
}
