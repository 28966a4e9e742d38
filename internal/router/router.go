package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/thullo-dev/thullo/internal/handlers"
	"github.com/thullo-dev/thullo/internal/middleware"
	"github.com/thullo-dev/thullo/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:board_id", middleware.AuthMiddleware(), handlers.BoardWebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		authed := api.Group("", middleware.AuthMiddleware())
		{
			authed.PUT("/users", handlers.UpdateUser)

			authed.GET("/boards", handlers.ListBoards)
			authed.GET("/boards/:board_id", handlers.GetBoard)
			authed.POST("/boards", handlers.CreateBoard)
			authed.PATCH("/boards/:board_id", handlers.UpdateBoard)
			authed.DELETE("/boards/:board_id", handlers.DeleteBoard)

			authed.POST("/boards/:board_id/members", handlers.AddMember)
			authed.DELETE("/boards/:board_id/members/:user_id", handlers.RemoveMember)

			authed.GET("/lists", handlers.ListLists)
			authed.POST("/lists", handlers.CreateList)
			authed.PUT("/lists/:list_id", handlers.UpdateList)
			authed.DELETE("/lists/:list_id", handlers.DeleteList)

			authed.GET("/tasks/:task_id", handlers.GetTask)
			authed.POST("/tasks", handlers.CreateTask)
			authed.PUT("/tasks/:task_id", handlers.UpdateTask)
			authed.PATCH("/tasks/:task_id", handlers.PatchTask)
			authed.DELETE("/tasks", handlers.DeleteTask)

			authed.POST("/tasks/:task_id/labels", handlers.AddTaskLabel)
			authed.DELETE("/tasks/:task_id/labels", handlers.RemoveTaskLabel)

			authed.GET("/labels", handlers.ListLabels)
			authed.POST("/labels", handlers.CreateLabel)

			authed.POST("/comments", handlers.CreateComment)
			authed.PUT("/comments/:comment_id", handlers.UpdateComment)
			authed.DELETE("/comments", handlers.DeleteComment)

			authed.POST("/attachments", handlers.CreateAttachment)
			authed.DELETE("/attachments", handlers.DeleteAttachment)

			authed.POST("/assignments", handlers.CreateAssignment)

			authed.GET("/invitations", handlers.ListInvitations)
			authed.POST("/invitations", handlers.CreateInvitation)
			authed.GET("/invitations/:token", handlers.AcceptInvitation)
		}
	}

	return r
}
