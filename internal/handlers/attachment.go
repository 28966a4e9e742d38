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

type CreateAttachmentRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	URL      string `json:"url" binding:"required,url"`
	Format   string `json:"format"`
	PublicID string `json:"public_id" binding:"required"`
	TaskID   uint   `json:"task_id" binding:"required"`
}

type DeleteAttachmentRequest struct {
	AttachmentID uint `json:"attachment_id" binding:"required"`
	TaskID       uint `json:"task_id" binding:"required"`
}

func CreateAttachment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateAttachmentRequest

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

	if !access.IsMember(db.DB, userID, task.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	attachment := models.Attachment{
		Name:     body.Name,
		URL:      body.URL,
		Format:   body.Format,
		PublicID: body.PublicID,
		TaskID:   task.ID,
		UserID:   userID,
	}

	if err := db.DB.Create(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You already have an attachment with this name for this task"})
			return
		}
		log.Printf("Failed to create attachment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attachment"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"data": AttachmentResponse{
			ID:       attachment.ID,
			Name:     attachment.Name,
			URL:      attachment.URL,
			Format:   attachment.Format,
			PublicID: attachment.PublicID,
			TaskID:   attachment.TaskID,
			UserID:   attachment.UserID,
		},
	})
}

// DeleteAttachment removes an attachment. Allowed for the uploader or a
// board admin.
func DeleteAttachment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body DeleteAttachmentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var attachment models.Attachment

	if err := db.DB.First(&attachment, body.AttachmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attachment"})
		}
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

	if attachment.UserID != userID && !access.IsAdmin(db.DB, userID, task.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	if err := db.DB.Unscoped().Delete(&attachment).Error; err != nil {
		log.Printf("Failed to delete attachment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attachment"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
