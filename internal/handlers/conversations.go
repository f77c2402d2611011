package handlers

import (
	"net/http"
	"sort"

	"github.com/fannypil/MovieSquad/internal/chat"
	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/gin-gonic/gin"
)

// Presence answers liveness questions against the room registry, wired in
// main alongside the notifier.
var Presence interface {
	IsUserOnline(userID string) bool
}

func SetPresence(p interface{ IsUserOnline(userID string) bool }) {
	Presence = p
}

// GetMyConversations GET /conversations/me
// Lists the user's private conversations with each counterpart's live
// status, most recent activity first.
func GetMyConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var identifiers []string
	if err := database.DB.Model(&models.Message{}).
		Distinct("chat_identifier").
		Where("chat_identifier IS NOT NULL AND (sender_id = ? OR recipient_id = ?)", userID, userID).
		Pluck("chat_identifier", &identifiers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	type conversation struct {
		ChatIdentifier   string          `json:"chatIdentifier"`
		LastMessage      *models.Message `json:"lastMessage"`
		OtherParticipant *models.User    `json:"otherParticipant"`
		IsOnline         bool            `json:"isOnline"`
	}

	conversations := make([]conversation, 0, len(identifiers))
	for _, identifier := range identifiers {
		var lastMessage models.Message
		if err := database.DB.Preload("Sender").Preload("Recipient").
			Where("chat_identifier = ?", identifier).
			Order("created_at desc").
			First(&lastMessage).Error; err != nil {
			continue
		}

		var other models.User
		otherID := chat.OtherParticipant(identifier, userID)
		if err := database.DB.Select("id", "username", "profile_picture").
			First(&other, "id = ?", otherID).Error; err != nil {
			continue
		}

		conversations = append(conversations, conversation{
			ChatIdentifier:   identifier,
			LastMessage:      &lastMessage,
			OtherParticipant: &other,
			IsOnline:         Presence != nil && Presence.IsUserOnline(other.ID),
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})

	c.JSON(http.StatusOK, conversations)
}

// GetConversationMessages GET /conversations/:chatIdentifier/messages
// Only participants can view a conversation.
func GetConversationMessages(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	chatIdentifier := c.Param("chatIdentifier")

	if !chat.IsChatParticipant(chatIdentifier, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant in this conversation"})
		return
	}

	var messages []models.Message
	if err := database.DB.Preload("Sender").Preload("Recipient").Preload("ReadBy").
		Where("chat_identifier = ?", chatIdentifier).
		Order("created_at asc").
		Limit(100).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkConversationRead PUT /conversations/:chatIdentifier/read
// Adds the user to the readBy set of every message addressed to them in the
// conversation; re-reading is a no-op.
func MarkConversationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	chatIdentifier := c.Param("chatIdentifier")

	if !chat.IsChatParticipant(chatIdentifier, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant in this conversation"})
		return
	}

	var messageIDs []string
	if err := database.DB.Model(&models.Message{}).
		Where("chat_identifier = ? AND recipient_id = ?", chatIdentifier, userID).
		Pluck("id", &messageIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	for _, messageID := range messageIDs {
		read := models.MessageRead{MessageID: messageID, UserID: userID}
		database.DB.Where(&models.MessageRead{MessageID: messageID, UserID: userID}).FirstOrCreate(&read)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}
