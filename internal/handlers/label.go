package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thullo-dev/thullo/db"
	"github.com/thullo-dev/thullo/internal/access"
	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/utils"
	"gorm.io/gorm"
)

type CreateLabelRequest struct {
	Name    string `json:"name" binding:"required,min=2"`
	Color   string `json:"color" binding:"required,hexcolor"`
	BoardID uint   `json:"board_id" binding:"required"`
}

type TaskLabelRequest struct {
	LabelID uint `json:"label_id" binding:"required"`
}

func ListLabels(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	boardID, err := strconv.ParseUint(ctx.Query("board_id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "board_id is missing"})
		return
	}

	if !access.IsMember(db.DB, userID, uint(boardID)) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var labels []models.Label

	if err := db.DB.Where("board_id = ?", boardID).Find(&labels).Error; err != nil {
		log.Printf("Failed to list labels: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve labels"})
		return
	}

	response := make([]LabelResponse, 0, len(labels))

	for _, label := range labels {
		response = append(response, LabelResponse{
			ID:      label.ID,
			Name:    label.Name,
			Color:   label.Color,
			BoardID: label.BoardID,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"data": response})
}

func CreateLabel(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateLabelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsMember(db.DB, userID, body.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	label := models.Label{
		Name:    body.Name,
		Color:   body.Color,
		BoardID: body.BoardID,
	}

	if err := db.DB.Create(&label).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You already have a label with this name and color"})
			return
		}
		log.Printf("Failed to create label: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create label"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"data": LabelResponse{
			ID:      label.ID,
			Name:    label.Name,
			Color:   label.Color,
			BoardID: label.BoardID,
		},
	})
}

// AddTaskLabel attaches an existing board label to a task.
func AddTaskLabel(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body TaskLabelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, ctx.Param("task_id")).Error; err != nil {
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

	var label models.Label

	if err := db.DB.First(&label, body.LabelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Label not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve label"})
		}
		return
	}

	taskLabel := models.TaskLabel{
		TaskID:  task.ID,
		LabelID: label.ID,
	}

	if err := db.DB.Create(&taskLabel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This label is already assigned to that task"})
			return
		}
		log.Printf("Failed to add label to task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add label"})
		return
	}

	ctx.Status(http.StatusCreated)
}

func RemoveTaskLabel(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body TaskLabelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, ctx.Param("task_id")).Error; err != nil {
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

	if err := db.DB.Unscoped().
		Where("task_id = ? AND label_id = ?", task.ID, body.LabelID).
		Delete(&models.TaskLabel{}).Error; err != nil {
		log.Printf("Failed to remove label from task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove label"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
