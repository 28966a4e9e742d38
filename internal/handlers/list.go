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

type CreateListRequest struct {
	Name    string `json:"name" binding:"required,min=2"`
	BoardID uint   `json:"board_id" binding:"required"`
}

type ListResponse struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	BoardID uint           `json:"board_id"`
	Tasks   []TaskResponse `json:"tasks"`
}

// ListLists returns every list of a board with its tasks and the tasks'
// assigned members, labels, attachments and comments.
func ListLists(ctx *gin.Context) {
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

	var lists []models.List

	if err := db.DB.
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Preload("Tasks.Assignments.User").
		Preload("Tasks.TaskLabels.Label").
		Preload("Tasks.Attachments").
		Preload("Tasks.Comments.User").
		Where("board_id = ?", boardID).
		Order("id").
		Find(&lists).Error; err != nil {
		log.Printf("Failed to list lists: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve lists"})
		return
	}

	response := make([]ListResponse, 0, len(lists))

	for _, list := range lists {
		tasks := make([]TaskResponse, 0, len(list.Tasks))
		for _, task := range list.Tasks {
			tasks = append(tasks, toTaskResponse(task))
		}
		response = append(response, ListResponse{
			ID:      list.ID,
			Name:    list.Name,
			BoardID: list.BoardID,
			Tasks:   tasks,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"data": response})
}

func CreateList(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateListRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var board models.Board

	if err := db.DB.First(&board, body.BoardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		}
		return
	}

	if !access.IsMember(db.DB, userID, board.ID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	list := models.List{
		Name:    body.Name,
		BoardID: board.ID,
	}

	if err := db.DB.Create(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You already have a list with this name"})
			return
		}
		log.Printf("Failed to create list: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create list"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"data": ListResponse{
			ID:      list.ID,
			Name:    list.Name,
			BoardID: list.BoardID,
			Tasks:   []TaskResponse{},
		},
	})
}

func UpdateList(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateListRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsMember(db.DB, userID, body.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var list models.List

	if err := db.DB.Where("id = ? AND board_id = ?", ctx.Param("list_id"), body.BoardID).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve list"})
		}
		return
	}

	list.Name = body.Name

	if err := db.DB.Save(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You already have a list with this name"})
			return
		}
		log.Printf("Failed to update list: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update list"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": ListResponse{
			ID:      list.ID,
			Name:    list.Name,
			BoardID: list.BoardID,
		},
	})
}

func DeleteList(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var list models.List

	if err := db.DB.First(&list, ctx.Param("list_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve list"})
		}
		return
	}

	if !access.IsMember(db.DB, userID, list.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	// Hard delete so the FK cascade takes the list's tasks with it.
	if err := db.DB.Unscoped().Delete(&list).Error; err != nil {
		log.Printf("Failed to delete list: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete list"})
		return
	}

	BroadcastBoardRefresh(list.BoardID)
	ctx.Status(http.StatusNoContent)
}
