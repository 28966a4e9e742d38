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
)

func taskRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authStub := func(ctx *gin.Context) {
		ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}

	r.PUT("/api/tasks/:task_id", authStub, UpdateTask)
	r.DELETE("/api/tasks", authStub, DeleteTask)

	return r
}

func seedList(t *testing.T, board models.Board, name string) models.List {
	t.Helper()
	list := models.List{Name: name, BoardID: board.ID}
	if err := db.DB.Create(&list).Error; err != nil {
		t.Fatalf("create list: %v", err)
	}
	return list
}

func seedTask(t *testing.T, board models.Board, list models.List, creator models.User) models.Task {
	t.Helper()
	task := models.Task{Title: "Task", Position: 1, BoardID: board.ID, ListID: list.ID, UserID: creator.ID}
	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func unscopedCount(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.DB.Unscoped().Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func TestDeleteTaskRemovesRowAndChildren(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	board := seedBoard(t, alice, "Roadmap")
	list := seedList(t, board, "Todo")
	task := seedTask(t, board, list, alice)

	comment := models.Comment{Content: "hi", TaskID: task.ID, UserID: alice.ID}
	if err := db.DB.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	r := taskRouter(&alice)
	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"task_id": %d, "board_id": %d}`, task.ID, board.ID)
	req := httptest.NewRequest(http.MethodDelete, "/api/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	// The row must be gone outright, not hidden behind deleted_at.
	if n := unscopedCount(t, &models.Task{}, "id = ?", task.ID); n != 0 {
		t.Fatalf("task row should be gone, found %d rows", n)
	}
	if n := unscopedCount(t, &models.Comment{}, "id = ?", comment.ID); n != 0 {
		t.Fatalf("task's comment should cascade away, found %d rows", n)
	}
}

func TestUpdateTaskRejectsListFromAnotherBoard(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	boardA := seedBoard(t, alice, "Roadmap")
	boardB := seedBoard(t, alice, "Backlog")
	listA := seedList(t, boardA, "Todo")
	listB := seedList(t, boardB, "Todo")
	task := seedTask(t, boardA, listA, alice)

	r := taskRouter(&alice)
	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"title": "Task", "position": 1, "board_id": %d, "list_id": %d}`, boardA.ID, listB.ID)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var after models.Task
	if err := db.DB.First(&after, task.ID).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if after.ListID != listA.ID {
		t.Fatal("task must stay on its own board's list")
	}
}
