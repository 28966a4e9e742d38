package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thullo-dev/thullo/db"
	"github.com/thullo-dev/thullo/internal/access"
	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/types"
	"github.com/thullo-dev/thullo/internal/utils"
	"gorm.io/gorm"
)

type CreateBoardRequest struct {
	Name       string `json:"name" binding:"required,min=2"`
	Visibility string `json:"visibility" binding:"required,oneof=private public"`
	Cover      string `json:"cover" binding:"omitempty,url"`
}

type UpdateBoardRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2"`
	Description string `json:"description"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=private public"`
	Cover       string `json:"cover" binding:"omitempty,url"`
}

type MemberResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

type BoardResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Cover       string           `json:"cover"`
	Description string           `json:"description"`
	Visibility  string           `json:"visibility"`
	OwnerID     uint             `json:"owner_id"`
	Members     []MemberResponse `json:"members"`
}

// boardMembers lists the owner first, then every membership row. The
// owner is reported with the admin role even though no row exists.
func boardMembers(board models.Board) []MemberResponse {
	members := []MemberResponse{
		{
			ID:       board.Owner.ID,
			Username: board.Owner.Username,
			Email:    board.Owner.Email,
			Avatar:   board.Owner.Avatar,
			Role:     types.RoleAdmin,
		},
	}

	for _, m := range board.Memberships {
		members = append(members, MemberResponse{
			ID:       m.User.ID,
			Username: m.User.Username,
			Email:    m.User.Email,
			Avatar:   m.User.Avatar,
			Role:     m.Role,
		})
	}

	return members
}

func toBoardResponse(board models.Board) BoardResponse {
	return BoardResponse{
		ID:          board.ID,
		Name:        board.Name,
		Cover:       board.Cover,
		Description: board.Description,
		Visibility:  board.Visibility,
		OwnerID:     board.OwnerID,
		Members:     boardMembers(board),
	}
}

func ListBoards(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var memberBoardIDs []uint

	if err := db.DB.Model(&models.BoardMembership{}).
		Where("user_id = ?", userID).
		Pluck("board_id", &memberBoardIDs).Error; err != nil {
		log.Printf("Failed to list memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	var boards []models.Board

	if err := db.DB.Preload("Owner").Preload("Memberships.User").
		Where("owner_id = ?", userID).
		Or("id IN ?", memberBoardIDs).
		Order("created_at DESC").
		Find(&boards).Error; err != nil {
		log.Printf("Failed to list boards: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, 0, len(boards))

	for _, board := range boards {
		response = append(response, toBoardResponse(board))
	}

	ctx.JSON(http.StatusOK, gin.H{"data": response})
}

func GetBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var board models.Board

	if err := db.DB.Preload("Owner").Preload("Memberships.User").
		First(&board, ctx.Param("board_id")).Error; err != nil {
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

	ctx.JSON(http.StatusOK, gin.H{"data": toBoardResponse(board)})
}

func CreateBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateBoardRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board := models.Board{
		Name:       body.Name,
		Cover:      body.Cover,
		Visibility: body.Visibility,
		OwnerID:    userID,
	}

	if err := db.DB.Create(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You already have a board with this name"})
			return
		}
		log.Printf("Failed to create board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	if err := db.DB.Preload("Owner").First(&board, board.ID).Error; err != nil {
		log.Printf("Failed to reload board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": toBoardResponse(board)})
}

func UpdateBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateBoardRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var board models.Board

	if err := db.DB.First(&board, ctx.Param("board_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		}
		return
	}

	if !access.IsAdmin(db.DB, userID, board.ID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	updates := make(map[string]interface{})

	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.Description != "" {
		updates["description"] = body.Description
	}
	if body.Visibility != "" {
		updates["visibility"] = body.Visibility
	}
	if body.Cover != "" {
		updates["cover"] = body.Cover
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&board).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You already have a board with this name"})
			return
		}
		log.Printf("Failed to update board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	if err := db.DB.Preload("Owner").Preload("Memberships.User").First(&board, board.ID).Error; err != nil {
		log.Printf("Failed to reload board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toBoardResponse(board)})
}

func DeleteBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var board models.Board

	if err := db.DB.Where("id = ? AND owner_id = ?", ctx.Param("board_id"), userID).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		}
		return
	}

	// Hard delete so the FK cascades tear down memberships, lists,
	// tasks and invitations with it.
	if err := db.DB.Unscoped().Delete(&board).Error; err != nil {
		log.Printf("Failed to delete board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
