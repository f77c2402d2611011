package notify

import (
	"fmt"
	"strings"

	"github.com/fannypil/MovieSquad/internal/models"
	apperrors "github.com/fannypil/MovieSquad/pkg/errors"
	"gorm.io/gorm"
)

const maxMessageLength = 250

// Transport pushes an event to a room of live connections. The durable
// write is the source of truth; the push is best-effort and must never fail
// the overall call.
type Transport interface {
	Emit(room, event string, data interface{})
}

// NoopTransport is used where no live layer is attached, e.g. REST-only
// tests.
type NoopTransport struct{}

func (NoopTransport) Emit(room, event string, data interface{}) {}

// Service is the single entry point for creating notifications, whether
// the triggering action came from the REST surface or the live layer.
type Service struct {
	db        *gorm.DB
	transport Transport
}

func NewService(db *gorm.DB, transport Transport) *Service {
	if transport == nil {
		transport = NoopTransport{}
	}
	return &Service{db: db, transport: transport}
}

// Options carries the optional attributes of a notification.
type Options struct {
	SenderID   *string
	EntityID   *string
	EntityType models.EntityType
	Message    string
}

// Create persists a notification and pushes it to the recipient's personal
// channel when one exists. A recipient without an active connection simply
// misses the push and recovers the record via the REST surface.
func (s *Service) Create(recipientID string, typ models.NotificationType, opts Options) (*models.Notification, error) {
	if recipientID == "" {
		return nil, apperrors.BadRequest("Notification recipient is required")
	}
	if opts.EntityID != nil && opts.EntityType == "" {
		return nil, apperrors.BadRequest("entityType is required when entityId is set")
	}

	message := strings.TrimSpace(opts.Message)
	if message == "" {
		senderUsername := ""
		if opts.SenderID != nil {
			var sender models.User
			if err := s.db.Select("id", "username").First(&sender, "id = ?", *opts.SenderID).Error; err == nil {
				senderUsername = sender.Username
			}
		}
		message = defaultMessage(typ, senderUsername)
	}
	// Truncate on runes so a multi-byte character is never split
	if runes := []rune(message); len(runes) > maxMessageLength {
		message = string(runes[:maxMessageLength])
	}

	notification := models.Notification{
		RecipientID: recipientID,
		SenderID:    opts.SenderID,
		Type:        typ,
		EntityID:    opts.EntityID,
		EntityType:  opts.EntityType,
		Message:     message,
		Read:        false,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return nil, apperrors.Internal("Failed to create notification")
	}

	// Enrich with sender display fields for delivery
	var full models.Notification
	if err := s.db.Preload("Sender").First(&full, "id = ?", notification.ID).Error; err == nil {
		notification = full
	}

	s.transport.Emit(recipientID, "newNotification", &notification)

	return &notification, nil
}

// defaultMessage resolves the human-readable fallback per type when the
// caller supplied none.
func defaultMessage(typ models.NotificationType, senderUsername string) string {
	switch typ {
	case models.NotificationTypeLike:
		return fmt.Sprintf("%s liked your post.", senderUsername)
	case models.NotificationTypeComment:
		return fmt.Sprintf("%s commented on your post.", senderUsername)
	case models.NotificationTypeFriendRequest:
		return fmt.Sprintf("%s sent you a friend request.", senderUsername)
	case models.NotificationTypeFriendAccepted:
		return fmt.Sprintf("%s accepted your friend request.", senderUsername)
	case models.NotificationTypeGroupInvite:
		return fmt.Sprintf("%s invited you to join a group.", senderUsername)
	case models.NotificationTypeGroupJoined:
		return fmt.Sprintf("%s joined your group.", senderUsername)
	case models.NotificationTypeGroupWatchlistAdd:
		return fmt.Sprintf("%s added an item to your group's watchlist.", senderUsername)
	case models.NotificationTypeGroupJoinRequest:
		return fmt.Sprintf("%s requested to join your group.", senderUsername)
	case models.NotificationTypeGroupRequestAccepted:
		return "Your request to join the group was accepted."
	case models.NotificationTypeGroupRequestRejected:
		return "Your request to join the group was rejected."
	case models.NotificationTypeGroupRemoved:
		return "You were removed from the group."
	case models.NotificationTypeNewPrivateMessage:
		return fmt.Sprintf("%s sent you a private message.", senderUsername)
	case models.NotificationTypeAdminMessage:
		return "Admin: You have a new message."
	case models.NotificationTypePostMentioned:
		return fmt.Sprintf("%s mentioned you in a post.", senderUsername)
	case models.NotificationTypeSharedMovieRec:
		return fmt.Sprintf("%s recommended a movie to you.", senderUsername)
	default:
		return "You have a new notification."
	}
}
