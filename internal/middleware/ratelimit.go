package middleware

import (
	"net/http"
	"time"

	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/gin-gonic/gin"
)

// GeneralRateLimit caps requests per client IP using the Redis counter.
// Fails open when Redis is unavailable.
func GeneralRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("userId"); exists {
			key = userID.(string)
		}

		allowed, err := database.CheckRateLimit(key, 120, time.Minute)
		if err == nil && !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
