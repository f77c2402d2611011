package routes

import (
	"github.com/fannypil/MovieSquad/internal/handlers"
	"github.com/fannypil/MovieSquad/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterSocialRoutes(r gin.IRouter) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.POST("/:id/friend-request", handlers.SendFriendRequest)
		users.GET("/friend-requests", handlers.GetPendingFriendRequests)
		users.POST("/friend-requests/:id/accept", handlers.AcceptFriendRequest)
		users.POST("/friend-requests/:id/reject", handlers.RejectFriendRequest)
	}

	posts := r.Group("/posts")
	posts.Use(middleware.AuthMiddleware())
	{
		posts.POST("", handlers.CreatePost)
		posts.POST("/:id/like", handlers.LikePost)
		posts.POST("/:id/comments", handlers.CommentOnPost)
	}
}
