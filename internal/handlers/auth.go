package handlers

import (
	"net/http"
	"time"

	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/pkg/logger"
	"github.com/fannypil/MovieSquad/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Logout POST /auth/logout
// Revokes the presented token by blacklisting its id for the remainder of
// its lifetime. Subsequent requests and socket handshakes with the same
// token are refused.
func Logout(c *gin.Context) {
	claims := c.MustGet("claims").(*utils.Claims)

	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		// Already expired, nothing left to revoke
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		return
	}

	if err := database.BlacklistToken(claims.GetJTI(), ttl); err != nil {
		logger.Error().Err(err).Msg("Failed to blacklist token on logout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
