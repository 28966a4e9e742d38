package sweeper

import (
	"testing"
	"time"

	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("access underlying connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Board{}, &models.Invitation{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func TestSweepRemovesOnlyExpiredInvitations(t *testing.T) {
	db := openTestDB(t)

	user := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	board := models.Board{Name: "Roadmap", Visibility: types.VisibilityPrivate, OwnerID: user.ID}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("create board: %v", err)
	}

	expired := models.Invitation{BoardID: board.ID, UserID: user.ID, Token: "old"}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	stale := time.Now().Add(-types.InvitationTTL - time.Hour)
	if err := db.Model(&expired).Update("created_at", stale).Error; err != nil {
		t.Fatalf("backdate invitation: %v", err)
	}

	other := models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	fresh := models.Invitation{BoardID: board.ID, UserID: other.ID, Token: "new"}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	s := New(db, time.Hour)
	if err := s.Sweep(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	var tokens []string
	if err := db.Model(&models.Invitation{}).Pluck("token", &tokens).Error; err != nil {
		t.Fatalf("list invitations: %v", err)
	}

	if len(tokens) != 1 || tokens[0] != "new" {
		t.Fatalf("expected only the fresh invitation to survive, got %v", tokens)
	}
}
