package chat

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/fannypil/MovieSquad/internal/notify"
	apperrors "github.com/fannypil/MovieSquad/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const (
	historyLimit     = 50
	maxContentLength = 500
)

// Service owns room authorization and message relay. Persist-then-broadcast
// ordering gives per-room delivery order to whoever is subscribed at the
// time; later joiners rely on history replay instead.
type Service struct {
	db       *gorm.DB
	registry *Registry
	notifier *notify.Service
}

func NewService(db *gorm.DB, registry *Registry, notifier *notify.Service) *Service {
	return &Service{db: db, registry: registry, notifier: notifier}
}

// GroupJoin is the result of admitting a connection to a group room.
type GroupJoin struct {
	Group    *models.Group
	Messages []models.Message
}

// PrivateJoin is the result of admitting a connection to a pairwise room.
type PrivateJoin struct {
	ChatIdentifier string
	OtherUser      *models.User
	Messages       []models.Message
}

// JoinGroup admits the connection to a group's room and replays recent
// history, oldest first.
func (s *Service) JoinGroup(connID, userID, groupID string) (*GroupJoin, error) {
	if groupID == "" {
		return nil, apperrors.BadRequest("Group ID is required")
	}

	var group models.Group
	if err := s.db.First(&group, "id = ?", groupID).Error; err != nil {
		return nil, apperrors.NotFound("Group not found")
	}
	ok, err := s.canAccessGroup(userID, &group)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Forbidden("You are not a member of this group")
	}

	s.registry.Join(connID, group.ID)

	messages, err := s.history("group_id = ?", group.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load chat history")
	}
	return &GroupJoin{Group: &group, Messages: messages}, nil
}

// JoinPrivateChat admits the connection to the pairwise room shared with
// another user and replays recent history, oldest first.
func (s *Service) JoinPrivateChat(connID, userID, otherUserID string) (*PrivateJoin, error) {
	if otherUserID == "" {
		return nil, apperrors.BadRequest("User ID is required")
	}
	if otherUserID == userID {
		return nil, apperrors.BadRequest("You cannot open a chat with yourself")
	}

	var other models.User
	if err := s.db.First(&other, "id = ?", otherUserID).Error; err != nil {
		return nil, apperrors.NotFound("User not found")
	}
	if err := s.canChatPrivately(userID, otherUserID); err != nil {
		return nil, err
	}

	chatID := DeriveChatIdentifier(userID, otherUserID)
	s.registry.Join(connID, chatID)

	messages, err := s.history("chat_identifier = ?", chatID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load chat history")
	}
	return &PrivateJoin{ChatIdentifier: chatID, OtherUser: &other, Messages: messages}, nil
}

// SendGroupMessage persists a group message and broadcasts it to every
// connection currently in the room, including the sender's other devices.
// Membership is re-validated here, not just at join time, since it can
// change mid-session.
func (s *Service) SendGroupMessage(userID, groupID, content string) (*models.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, apperrors.BadRequest("Group ID is required")
	}

	var group models.Group
	if err := s.db.First(&group, "id = ?", groupID).Error; err != nil {
		return nil, apperrors.NotFound("Group not found")
	}
	ok, err := s.canAccessGroup(userID, &group)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Forbidden("You are not a member of this group")
	}

	msg := models.Message{
		SenderID: userID,
		GroupID:  &group.ID,
		Content:  content,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, apperrors.Internal("Failed to send message")
	}
	s.db.Preload("Sender").First(&msg, "id = ?", msg.ID)

	s.registry.Broadcast(group.ID, "groupMessage", &msg)
	return &msg, nil
}

// SendPrivateMessage persists a private message, broadcasts it to the
// pairwise room, and notifies the recipient unless one of their connections
// is already viewing the conversation.
func (s *Service) SendPrivateMessage(userID, recipientID, content string) (*models.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if recipientID == "" {
		return nil, apperrors.BadRequest("Recipient ID is required")
	}
	if recipientID == userID {
		return nil, apperrors.BadRequest("You cannot message yourself")
	}

	var recipient models.User
	if err := s.db.First(&recipient, "id = ?", recipientID).Error; err != nil {
		return nil, apperrors.NotFound("Recipient not found")
	}
	if err := s.canChatPrivately(userID, recipientID); err != nil {
		return nil, err
	}

	chatID := DeriveChatIdentifier(userID, recipientID)
	msg := models.Message{
		SenderID:       userID,
		RecipientID:    &recipient.ID,
		ChatIdentifier: &chatID,
		Content:        content,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, apperrors.Internal("Failed to send message")
	}
	s.db.Preload("Sender").Preload("Recipient").First(&msg, "id = ?", msg.ID)

	s.registry.Broadcast(chatID, "privateMessage", &msg)

	if !s.registry.IsUserInRoom(recipientID, chatID) {
		if _, err := s.notifier.Create(recipientID, models.NotificationTypeNewPrivateMessage, notify.Options{
			SenderID:   &msg.SenderID,
			EntityID:   &msg.ID,
			EntityType: models.EntityTypeMessage,
		}); err != nil {
			// The message itself is already durably written
			log.Printf("private message notification failed for %s: %v", recipientID, err)
		}
	}
	return &msg, nil
}

// TypingTarget addresses a typing signal at a group room or a pairwise room.
type TypingTarget struct {
	GroupID     string
	RecipientID string
}

// Typing fans out a typing signal to the target room, excluding the sender
// connection. No persistence.
func (s *Service) Typing(connID, userID, username string, target TypingTarget) {
	s.relaySignal(connID, userID, username, target, "userTyping")
}

// StopTyping fans out a stop-typing signal, excluding the sender connection.
func (s *Service) StopTyping(connID, userID, username string, target TypingTarget) {
	s.relaySignal(connID, userID, username, target, "userStoppedTyping")
}

func (s *Service) relaySignal(connID, userID, username string, target TypingTarget, event string) {
	payload := map[string]interface{}{
		"userId":   userID,
		"username": username,
	}

	var room string
	switch {
	case target.GroupID != "":
		room = target.GroupID
		payload["groupId"] = target.GroupID
	case target.RecipientID != "":
		room = DeriveChatIdentifier(userID, target.RecipientID)
		payload["chatIdentifier"] = room
	default:
		return
	}

	// Signals only flow to rooms this connection has joined
	if !s.registry.InRoom(connID, room) {
		return
	}
	s.registry.BroadcastExcept(room, connID, event, payload)
}

// MarkMessageRead idempotently adds the user to the message's reader set
// and broadcasts the read status to the room.
func (s *Service) MarkMessageRead(userID, messageID string) error {
	if messageID == "" {
		return apperrors.BadRequest("Message ID is required")
	}

	var msg models.Message
	if err := s.db.First(&msg, "id = ?", messageID).Error; err != nil {
		return apperrors.NotFound("Message not found")
	}

	payload := map[string]interface{}{
		"messageId": msg.ID,
		"userId":    userID,
	}

	var room string
	switch {
	case msg.ChatIdentifier != nil:
		if !IsChatParticipant(*msg.ChatIdentifier, userID) {
			return apperrors.Forbidden("You are not a participant in this conversation")
		}
		room = *msg.ChatIdentifier
		payload["chatIdentifier"] = room
	case msg.GroupID != nil:
		var group models.Group
		if err := s.db.First(&group, "id = ?", *msg.GroupID).Error; err != nil {
			return apperrors.NotFound("Group not found")
		}
		ok, err := s.canAccessGroup(userID, &group)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Forbidden("You are not a member of this group")
		}
		room = group.ID
		payload["groupId"] = room
	default:
		return apperrors.BadRequest("Message has no chat")
	}

	// addToSet semantics: a second read by the same user is a no-op
	read := models.MessageRead{MessageID: msg.ID, UserID: userID}
	if err := s.db.Where(&models.MessageRead{MessageID: msg.ID, UserID: userID}).FirstOrCreate(&read).Error; err != nil {
		return apperrors.Internal("Failed to update read status")
	}

	s.registry.Broadcast(room, "messageReadStatus", payload)
	return nil
}

// AreFriends reports whether both friendship directions exist.
func (s *Service) AreFriends(a, b string) bool {
	var count int64
	s.db.Table("user_friends").
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Count(&count)
	return count >= 2
}

func (s *Service) canAccessGroup(userID string, group *models.Group) (bool, error) {
	if group.AdminID == userID {
		return true, nil
	}

	var user models.User
	if err := s.db.Select("id", "role").First(&user, "id = ?", userID).Error; err != nil {
		return false, apperrors.Unauthorized("User not found")
	}
	if user.IsGlobalAdmin() {
		return true, nil
	}
	return s.isGroupMember(group.ID, userID), nil
}

func (s *Service) canChatPrivately(userID, otherUserID string) error {
	var user models.User
	if err := s.db.Select("id", "role").First(&user, "id = ?", userID).Error; err != nil {
		return apperrors.Unauthorized("User not found")
	}
	if user.IsGlobalAdmin() {
		return nil
	}
	if !s.AreFriends(userID, otherUserID) {
		return apperrors.Forbidden("You can only chat with your friends")
	}
	return nil
}

func (s *Service) isGroupMember(groupID, userID string) bool {
	var count int64
	s.db.Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	return count > 0
}

// history fetches the most recent messages for a room filter, returned
// oldest first for replay.
func (s *Service) history(query string, arg interface{}) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.Where(query, arg).
		Order("created_at desc").
		Limit(historyLimit).
		Preload("Sender").
		Preload("ReadBy").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return lo.Reverse(messages), nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.BadRequest("Message content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return "", apperrors.BadRequest("Message cannot exceed 500 characters")
	}
	return content, nil
}
