package routes

import (
	"github.com/fannypil/MovieSquad/internal/handlers"
	"github.com/fannypil/MovieSquad/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterGroupRoutes(r gin.IRouter) {
	groups := r.Group("/groups")
	groups.Use(middleware.AuthMiddleware())
	{
		groups.POST("/:id/invite", handlers.InviteToGroup)
		groups.POST("/:id/invite/accept", handlers.AcceptGroupInvite)
		groups.POST("/:id/join", handlers.JoinGroup)
		groups.POST("/:id/requests/:userId/accept", handlers.AcceptJoinRequest)
		groups.POST("/:id/requests/:userId/reject", handlers.RejectJoinRequest)
		groups.DELETE("/:id/members/:userId", handlers.RemoveGroupMember)
		groups.POST("/:id/watchlist", handlers.AddWatchlistItem)
	}
}
