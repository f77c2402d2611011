package routes

import (
	"github.com/fannypil/MovieSquad/internal/handlers"
	"github.com/fannypil/MovieSquad/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	auth := r.Group("/auth")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/logout", handlers.Logout)
	}
}
