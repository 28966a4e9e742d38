package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/thullo-dev/thullo/db"
	"github.com/thullo-dev/thullo/internal/middleware"
	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	// _foreign_keys=on so the ON DELETE CASCADE constraints fire like
	// they do on postgres.
	testDB, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		t.Fatalf("access underlying connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.BoardMembership{},
		&models.Invitation{},
		&models.List{},
		&models.Task{},
		&models.Label{},
		&models.TaskLabel{},
		&models.Assignment{},
		&models.Attachment{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db.DB = testDB
}

// memberRouter wires the member routes with a stub auth layer that
// trusts the user id supplied per request instead of verifying a JWT.
func memberRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authStub := func(ctx *gin.Context) {
		ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}

	r.POST("/api/boards/:board_id/members", authStub, AddMember)
	r.DELETE("/api/boards/:board_id/members/:user_id", authStub, RemoveMember)

	return r
}

func seedUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func seedBoard(t *testing.T, owner models.User, name string) models.Board {
	t.Helper()
	board := models.Board{Name: name, Visibility: types.VisibilityPrivate, OwnerID: owner.ID}
	if err := db.DB.Create(&board).Error; err != nil {
		t.Fatalf("create board: %v", err)
	}
	return board
}

func seedMember(t *testing.T, board models.Board, user models.User, role string) {
	t.Helper()
	member := models.BoardMembership{BoardID: board.ID, UserID: user.ID, Role: role}
	if err := db.DB.Create(&member).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

func membershipCount(t *testing.T, board models.Board, user models.User) int64 {
	t.Helper()
	var n int64
	if err := db.DB.Model(&models.BoardMembership{}).
		Where("board_id = ? AND user_id = ?", board.ID, user.ID).
		Count(&n).Error; err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	return n
}

func TestRemoveMemberAsOwner(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")
	board := seedBoard(t, alice, "Roadmap")
	seedMember(t, board, bob, types.RoleUser)

	invitation := models.Invitation{BoardID: board.ID, UserID: bob.ID, Token: "tok"}
	if err := db.DB.Create(&invitation).Error; err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	r := memberRouter(&alice)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/boards/%d/members/%d", board.ID, bob.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	if n := membershipCount(t, board, bob); n != 0 {
		t.Fatalf("membership should be gone, found %d rows", n)
	}

	var invitations int64
	db.DB.Model(&models.Invitation{}).Where("board_id = ? AND user_id = ?", board.ID, bob.ID).Count(&invitations)
	if invitations != 0 {
		t.Fatal("invitation should be gone")
	}
}

func TestRemoveMemberForbiddenForPlainMember(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")
	carol := seedUser(t, "carol")
	board := seedBoard(t, alice, "Roadmap")
	seedMember(t, board, bob, types.RoleUser)
	seedMember(t, board, carol, types.RoleUser)

	r := memberRouter(&bob)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/boards/%d/members/%d", board.ID, carol.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}

	if n := membershipCount(t, board, carol); n != 1 {
		t.Fatal("a forbidden removal must not mutate anything")
	}
}

func TestRemoveMemberRejectsSelfRemoval(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")
	board := seedBoard(t, alice, "Roadmap")
	seedMember(t, board, bob, types.RoleAdmin)

	r := memberRouter(&bob)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/boards/%d/members/%d", board.ID, bob.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}

	if n := membershipCount(t, board, bob); n != 1 {
		t.Fatal("self-removal must not mutate anything")
	}
}

func TestRemoveMemberNotFoundForStranger(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	mallory := seedUser(t, "mallory")
	board := seedBoard(t, alice, "Roadmap")

	r := memberRouter(&alice)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/boards/%d/members/%d", board.ID, mallory.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddMemberRejectsOwnerAndDuplicates(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")
	board := seedBoard(t, alice, "Roadmap")

	r := memberRouter(&alice)

	post := func(userID uint) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		body := fmt.Sprintf(`{"user_id": %d, "role": "user"}`, userID)
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/boards/%d/members", board.ID), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	if w := post(alice.ID); w.Code != http.StatusBadRequest {
		t.Fatalf("adding the owner should be 400, got %d", w.Code)
	}

	if w := post(bob.ID); w.Code != http.StatusCreated {
		t.Fatalf("adding bob should be 201, got %d: %s", w.Code, w.Body.String())
	}

	if w := post(bob.ID); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("re-adding bob should be 422, got %d: %s", w.Code, w.Body.String())
	}
}
