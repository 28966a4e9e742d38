package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thullo-dev/thullo/db"
	"github.com/thullo-dev/thullo/internal/access"
	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/types"
	"github.com/thullo-dev/thullo/internal/utils"
	"gorm.io/gorm"
)

type CreateInvitationRequest struct {
	BoardID  uint   `json:"board_id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type InvitationResponse struct {
	ID         uint   `json:"id"`
	Token      string `json:"token"`
	BoardID    uint   `json:"board_id"`
	UserID     uint   `json:"user_id"`
	BoardName  string `json:"board_name"`
	BoardCover string `json:"board_cover"`
	OwnerName  string `json:"owner_name"`
}

func invitationExpired(createdAt time.Time) bool {
	return time.Since(createdAt) > types.InvitationTTL
}

// ListInvitations returns the current user's pending, non-expired
// invitations with the inviting board's name, cover and owner.
func ListInvitations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var invitations []models.Invitation

	if err := db.DB.Preload("Board.Owner").
		Where("user_id = ? AND created_at > ?", userID, time.Now().Add(-types.InvitationTTL)).
		Find(&invitations).Error; err != nil {
		log.Printf("Failed to list invitations: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	response := make([]InvitationResponse, 0, len(invitations))

	for _, invitation := range invitations {
		response = append(response, InvitationResponse{
			ID:         invitation.ID,
			Token:      invitation.Token,
			BoardID:    invitation.BoardID,
			UserID:     invitation.UserID,
			BoardName:  invitation.Board.Name,
			BoardCover: invitation.Board.Cover,
			OwnerName:  invitation.Board.Owner.Username,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"data": response})
}

// CreateInvitation sends a board invitation to a user by username.
// Admin only. An expired previous invitation is replaced; a live one
// blocks a resend.
func CreateInvitation(ctx *gin.Context) {
	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateInvitationRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsAdmin(db.DB, currentUserID, body.BoardID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only an administrator can invite new members"})
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

	var invitee models.User

	if err := db.DB.Where("username = ?", body.Username).First(&invitee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	if invitee.ID == currentUserID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "You cannot invite yourself"})
		return
	}

	if invitee.ID == board.OwnerID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "This user is the board's owner"})
		return
	}

	var member models.BoardMembership

	err = db.DB.Where("board_id = ? AND user_id = ?", board.ID, invitee.ID).First(&member).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "This user is already a member"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	var existing models.Invitation

	err = db.DB.Where("board_id = ? AND user_id = ?", board.ID, invitee.ID).First(&existing).Error

	if err == nil {
		if !invitationExpired(existing.CreatedAt) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invitation already sent"})
			return
		}
		if err := db.DB.Unscoped().Delete(&existing).Error; err != nil {
			log.Printf("Failed to replace expired invitation: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
			return
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check invitation: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	invitation := models.Invitation{
		BoardID: board.ID,
		UserID:  invitee.ID,
		Token:   uuid.NewString(),
	}

	if err := db.DB.Create(&invitation).Error; err != nil {
		log.Printf("Failed to create invitation: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AcceptInvitation redeems an invitation token for the current user,
// creating the membership and consuming the token.
func AcceptInvitation(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var invitation models.Invitation

	if err := db.DB.Where("token = ? AND user_id = ?", ctx.Param("token"), userID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "No invitation found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitation"})
		}
		return
	}

	if invitationExpired(invitation.CreatedAt) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "The invitation has expired"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		member := models.BoardMembership{
			BoardID: invitation.BoardID,
			UserID:  userID,
			Role:    types.RoleUser,
		}

		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&invitation).Error
	})

	if err != nil {
		log.Printf("Failed to accept invitation: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"board_id": invitation.BoardID})
}
