package routes

import (
	"github.com/fannypil/MovieSquad/internal/handlers"
	"github.com/fannypil/MovieSquad/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAdminRoutes(r gin.IRouter) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/message", handlers.SendAdminMessage)
	}
}
