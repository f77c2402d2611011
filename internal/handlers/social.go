package handlers

import (
	"log"
	"net/http"

	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/fannypil/MovieSquad/internal/notify"
	"github.com/gin-gonic/gin"
)

// areFriends reports whether both friendship directions exist
func areFriends(a, b string) bool {
	var count int64
	database.DB.Table("user_friends").
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Count(&count)
	return count >= 2
}

// SendFriendRequest POST /users/:id/friend-request
func SendFriendRequest(c *gin.Context) {
	senderID := c.MustGet("userId").(string)
	recipientID := c.Param("id")

	if senderID == recipientID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot send a friend request to yourself"})
		return
	}

	var recipient models.User
	if err := database.DB.First(&recipient, "id = ?", recipientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if areFriends(senderID, recipientID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are already friends"})
		return
	}

	var existing models.FriendRequest
	if err := database.DB.Where("sender_id = ? AND receiver_id = ? AND status = ?",
		senderID, recipientID, models.FriendRequestPending).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Request already pending", "request": existing})
		return
	}

	req := models.FriendRequest{SenderID: senderID, ReceiverID: recipientID}
	if err := database.DB.Create(&req).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		return
	}

	// The request succeeds even if the notification write fails
	if _, err := Notifier.Create(recipientID, models.NotificationTypeFriendRequest, notify.Options{
		SenderID:   &senderID,
		EntityID:   &senderID,
		EntityType: models.EntityTypeUser,
	}); err != nil {
		log.Printf("friend request notification failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent", "request": req})
}

// AcceptFriendRequest POST /users/friend-requests/:id/accept
func AcceptFriendRequest(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	requestID := c.Param("id")

	var req models.FriendRequest
	if err := database.DB.First(&req, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		return
	}
	if req.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	if req.Status != models.FriendRequestPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request is no longer pending"})
		return
	}

	// Friendship is mutual: one row per direction
	sender := models.User{ID: req.SenderID}
	receiver := models.User{ID: req.ReceiverID}
	if err := database.DB.Model(&receiver).Association("Friends").Append(&sender); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept friend request"})
		return
	}
	if err := database.DB.Model(&sender).Association("Friends").Append(&receiver); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept friend request"})
		return
	}

	database.DB.Model(&req).Update("status", models.FriendRequestAccepted)

	if _, err := Notifier.Create(req.SenderID, models.NotificationTypeFriendAccepted, notify.Options{
		SenderID:   &req.ReceiverID,
		EntityID:   &req.ReceiverID,
		EntityType: models.EntityTypeUser,
	}); err != nil {
		log.Printf("friend accepted notification failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
}

// RejectFriendRequest POST /users/friend-requests/:id/reject
func RejectFriendRequest(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	requestID := c.Param("id")

	var req models.FriendRequest
	if err := database.DB.First(&req, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		return
	}
	if req.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	database.DB.Model(&req).Update("status", models.FriendRequestRejected)

	c.JSON(http.StatusOK, gin.H{"message": "Friend request rejected"})
}

// GetPendingFriendRequests GET /users/friend-requests
func GetPendingFriendRequests(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var requests []models.FriendRequest
	if err := database.DB.Preload("Sender").
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
