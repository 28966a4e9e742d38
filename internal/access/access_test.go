package access

import (
	"testing"

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

	if err := db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.BoardMembership{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}

	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	return user
}

func createBoard(t *testing.T, db *gorm.DB, owner models.User, name string) models.Board {
	t.Helper()

	board := models.Board{
		Name:       name,
		Visibility: types.VisibilityPrivate,
		OwnerID:    owner.ID,
	}

	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("create board %s: %v", name, err)
	}

	return board
}

func addMember(t *testing.T, db *gorm.DB, board models.Board, user models.User, role string) {
	t.Helper()

	member := models.BoardMembership{
		BoardID: board.ID,
		UserID:  user.ID,
		Role:    role,
	}

	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("add member: %v", err)
	}
}

func TestOwnerIsMemberAndAdminWithoutMembershipRow(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	board := createBoard(t, db, alice, "Roadmap")

	role, err := Resolve(db, alice.ID, board.ID)
	if err != nil {
		t.Fatalf("resolve owner: %v", err)
	}
	if role != RoleOwner {
		t.Fatalf("expected RoleOwner, got %s", role)
	}

	if !IsMember(db, alice.ID, board.ID) {
		t.Fatal("owner should pass IsMember")
	}
	if !IsAdmin(db, alice.ID, board.ID) {
		t.Fatal("owner should pass IsAdmin")
	}
}

func TestPlainMemberIsNotAdmin(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	board := createBoard(t, db, alice, "Roadmap")
	addMember(t, db, board, bob, types.RoleUser)

	if !IsMember(db, bob.ID, board.ID) {
		t.Fatal("member should pass IsMember")
	}
	if IsAdmin(db, bob.ID, board.ID) {
		t.Fatal("plain member should fail IsAdmin")
	}

	role, err := Resolve(db, bob.ID, board.ID)
	if err != nil {
		t.Fatalf("resolve member: %v", err)
	}
	if role != RoleMember {
		t.Fatalf("expected RoleMember, got %s", role)
	}
}

func TestAdminMemberPassesBothChecks(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	carol := createUser(t, db, "carol")
	board := createBoard(t, db, alice, "Roadmap")
	addMember(t, db, board, carol, types.RoleAdmin)

	if !IsMember(db, carol.ID, board.ID) {
		t.Fatal("admin member should pass IsMember")
	}
	if !IsAdmin(db, carol.ID, board.ID) {
		t.Fatal("admin member should pass IsAdmin")
	}
}

func TestStrangerFailsBothChecks(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	mallory := createUser(t, db, "mallory")
	board := createBoard(t, db, alice, "Roadmap")

	if IsMember(db, mallory.ID, board.ID) {
		t.Fatal("stranger should fail IsMember")
	}
	if IsAdmin(db, mallory.ID, board.ID) {
		t.Fatal("stranger should fail IsAdmin")
	}
}

func TestMissingBoardResolvesToNone(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")

	role, err := Resolve(db, alice.ID, 9999)
	if err != nil {
		t.Fatalf("resolve missing board: %v", err)
	}
	if role != RoleNone {
		t.Fatalf("expected RoleNone, got %s", role)
	}

	if IsMember(db, alice.ID, 9999) {
		t.Fatal("missing board should fail IsMember")
	}
	if IsAdmin(db, alice.ID, 9999) {
		t.Fatal("missing board should fail IsAdmin")
	}
}

// Role changes must be visible on the next check; nothing may be cached.
func TestRoleChangeIsVisibleImmediately(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	board := createBoard(t, db, alice, "Roadmap")
	addMember(t, db, board, bob, types.RoleUser)

	if IsAdmin(db, bob.ID, board.ID) {
		t.Fatal("bob should not be admin yet")
	}

	if err := db.Model(&models.BoardMembership{}).
		Where("board_id = ? AND user_id = ?", board.ID, bob.ID).
		Update("role", types.RoleAdmin).Error; err != nil {
		t.Fatalf("promote bob: %v", err)
	}

	if !IsAdmin(db, bob.ID, board.ID) {
		t.Fatal("promotion should be visible on the next check")
	}
}
