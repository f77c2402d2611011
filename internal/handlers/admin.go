package handlers

import (
	"net/http"
	"strings"

	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/fannypil/MovieSquad/internal/notify"
	"github.com/gin-gonic/gin"
)

// SendAdminMessage POST /admin/message
// Delivers an announcement as an admin_message notification, either to one
// user or to everyone else on the platform.
func SendAdminMessage(c *gin.Context) {
	adminID := c.MustGet("userId").(string)

	var body struct {
		UserID  string `json:"userId"` // empty = broadcast to all users
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	message := strings.TrimSpace(body.Message)

	if body.UserID != "" {
		var recipient models.User
		if err := database.DB.First(&recipient, "id = ?", body.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if _, err := Notifier.Create(recipient.ID, models.NotificationTypeAdminMessage, notify.Options{
			SenderID: &adminID,
			Message:  message,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Message sent", "recipients": 1})
		return
	}

	var userIDs []string
	if err := database.DB.Model(&models.User{}).
		Where("id <> ?", adminID).
		Pluck("id", &userIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	for _, id := range userIDs {
		notifyQuietly(id, models.NotificationTypeAdminMessage, notify.Options{
			SenderID: &adminID,
			Message:  message,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent", "recipients": len(userIDs)})
}
