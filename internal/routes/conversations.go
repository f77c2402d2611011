package routes

import (
	"github.com/fannypil/MovieSquad/internal/handlers"
	"github.com/fannypil/MovieSquad/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterConversationRoutes(r gin.IRouter) {
	conversations := r.Group("/conversations")
	conversations.Use(middleware.AuthMiddleware())
	{
		conversations.GET("/me", handlers.GetMyConversations)
		conversations.GET("/:chatIdentifier/messages", handlers.GetConversationMessages)
		conversations.PUT("/:chatIdentifier/read", handlers.MarkConversationRead)
	}
}
