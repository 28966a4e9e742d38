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

type CreateTaskRequest struct {
	Title    string  `json:"title" binding:"required,min=2"`
	Position float64 `json:"position"`
	BoardID  uint    `json:"board_id" binding:"required"`
	ListID   uint    `json:"list_id" binding:"required"`
}

type PatchTaskRequest struct {
	BoardID     uint   `json:"board_id" binding:"required"`
	Title       string `json:"title" binding:"omitempty,min=2"`
	Description string `json:"description"`
	Cover       string `json:"cover" binding:"omitempty,url"`
}

type DeleteTaskRequest struct {
	TaskID  uint `json:"task_id" binding:"required"`
	BoardID uint `json:"board_id" binding:"required"`
}

type AssignedMemberResponse struct {
	AssignmentID uint   `json:"assignment_id"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
}

type LabelResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	BoardID uint   `json:"board_id"`
}

type AttachmentResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Format   string `json:"format"`
	PublicID string `json:"public_id"`
	TaskID   uint   `json:"task_id"`
	UserID   uint   `json:"user_id"`
}

type CommentResponse struct {
	ID       uint   `json:"id"`
	Content  string `json:"content"`
	TaskID   uint   `json:"task_id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type TaskResponse struct {
	ID              uint                     `json:"id"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	Position        float64                  `json:"position"`
	Cover           string                   `json:"cover"`
	UserID          uint                     `json:"user_id"`
	BoardID         uint                     `json:"board_id"`
	ListID          uint                     `json:"list_id"`
	AssignedMembers []AssignedMemberResponse `json:"assignedMembers"`
	Labels          []LabelResponse          `json:"labels"`
	Attachments     []AttachmentResponse     `json:"attachments"`
	Comments        []CommentResponse        `json:"comments"`
}

// toTaskResponse flattens a task's preloaded associations. Slices are
// always non-nil so clients see empty arrays, not null.
func toTaskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Position:        task.Position,
		Cover:           task.Cover,
		UserID:          task.UserID,
		BoardID:         task.BoardID,
		ListID:          task.ListID,
		AssignedMembers: []AssignedMemberResponse{},
		Labels:          []LabelResponse{},
		Attachments:     []AttachmentResponse{},
		Comments:        []CommentResponse{},
	}

	for _, assignment := range task.Assignments {
		response.AssignedMembers = append(response.AssignedMembers, AssignedMemberResponse{
			AssignmentID: assignment.ID,
			ID:           assignment.User.ID,
			Username:     assignment.User.Username,
			Avatar:       assignment.User.Avatar,
		})
	}

	for _, taskLabel := range task.TaskLabels {
		response.Labels = append(response.Labels, LabelResponse{
			ID:      taskLabel.Label.ID,
			Name:    taskLabel.Label.Name,
			Color:   taskLabel.Label.Color,
			BoardID: taskLabel.Label.BoardID,
		})
	}

	for _, attachment := range task.Attachments {
		response.Attachments = append(response.Attachments, AttachmentResponse{
			ID:       attachment.ID,
			Name:     attachment.Name,
			URL:      attachment.URL,
			Format:   attachment.Format,
			PublicID: attachment.PublicID,
			TaskID:   attachment.TaskID,
			UserID:   attachment.UserID,
		})
	}

	for _, comment := range task.Comments {
		response.Comments = append(response.Comments, CommentResponse{
			ID:       comment.ID,
			Content:  comment.Content,
			TaskID:   comment.TaskID,
			UserID:   comment.UserID,
			Username: comment.User.Username,
			Avatar:   comment.User.Avatar,
		})
	}

	return response
}

func loadTaskWithMeta(taskID uint) (models.Task, error) {
	var task models.Task

	err := db.DB.
		Preload("Assignments.User").
		Preload("TaskLabels.Label").
		Preload("Attachments").
		Preload("Comments.User").
		First(&task, taskID).Error

	return task, err
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
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

	task, err = loadTaskWithMeta(task.ID)

	if err != nil {
		log.Printf("Failed to load task metadata: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toTaskResponse(task)})
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsMember(db.DB, userID, body.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	task := models.Task{
		Title:    body.Title,
		Position: body.Position,
		BoardID:  body.BoardID,
		ListID:   body.ListID,
		UserID:   userID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	BroadcastBoardRefresh(task.BoardID)
	ctx.JSON(http.StatusCreated, gin.H{"data": toTaskResponse(task)})
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsMember(db.DB, userID, body.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND board_id = ?", ctx.Param("task_id"), body.BoardID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	if body.ListID != task.ListID {
		var list models.List

		if err := db.DB.Where("id = ? AND board_id = ?", body.ListID, body.BoardID).First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "List does not belong to this board"})
			} else {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve list"})
			}
			return
		}
	}

	task.Title = body.Title
	task.Position = body.Position
	task.ListID = body.ListID

	if err := db.DB.Save(&task).Error; err != nil {
		log.Printf("Failed to update task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	task, err = loadTaskWithMeta(task.ID)

	if err != nil {
		log.Printf("Failed to load task metadata: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	BroadcastBoardRefresh(task.BoardID)
	ctx.JSON(http.StatusOK, gin.H{"data": toTaskResponse(task)})
}

// PatchTask updates the free-form fields of a task (title, description,
// cover) without touching its position or list.
func PatchTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body PatchTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsMember(db.DB, userID, body.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND board_id = ?", ctx.Param("task_id"), body.BoardID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	updates := make(map[string]interface{})

	if body.Title != "" {
		updates["title"] = body.Title
	}
	if body.Description != "" {
		updates["description"] = body.Description
	}
	if body.Cover != "" {
		updates["cover"] = body.Cover
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&task).Updates(updates).Error; err != nil {
		log.Printf("Failed to patch task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	BroadcastBoardRefresh(task.BoardID)
	ctx.JSON(http.StatusOK, gin.H{"data": toTaskResponse(task)})
}

// DeleteTask removes a task. Only the task's creator or a board admin
// may delete it.
func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body DeleteTaskRequest

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

	if task.UserID != userID && !access.IsAdmin(db.DB, userID, task.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	// Hard delete so the FK cascade removes assignments, attachments,
	// comments and label links with the task.
	if err := db.DB.Unscoped().Delete(&task).Error; err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	BroadcastBoardRefresh(task.BoardID)
	ctx.Status(http.StatusNoContent)
}
