package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thullo-dev/thullo/internal/middleware"
	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/types"
)

func wsRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authStub := func(ctx *gin.Context) {
		ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}

	r.GET("/api/ws/:board_id", authStub, BoardWebSocket)

	return r
}

func TestBoardWebSocketReleasesResourcesOnClose(t *testing.T) {
	setupTestDB(t)

	alice := seedUser(t, "alice")
	board := seedBoard(t, alice, "Roadmap")

	srv := httptest.NewServer(wsRouter(&alice))
	defer srv.Close()

	baseline := runtime.NumGoroutine()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/api/ws/%d", board.ID)
	header := http.Header{"Origin": []string{types.AllowedOrigins[0]}}

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}

	var welcome map[string]interface{}
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome message: %v", err)
	}
	if welcome["type"] != "connected" {
		t.Fatalf("expected connected message, got %v", welcome)
	}

	conn.Close()

	// The handler must unregister the client and its ping goroutine
	// must exit rather than block on the stopped ticker.
	deadline := time.Now().Add(3 * time.Second)
	for {
		boardClientsMu.RLock()
		clients := len(boardClients[board.ID])
		boardClientsMu.RUnlock()

		goroutines := runtime.NumGoroutine()

		if clients == 0 && goroutines <= baseline {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("resources not released: %d clients, %d goroutines (baseline %d)",
				clients, goroutines, baseline)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
