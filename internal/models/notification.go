package models

import (
	"time"

	"github.com/fannypil/MovieSquad/pkg/utils"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeLike           NotificationType = "like"
	NotificationTypeComment        NotificationType = "comment"
	NotificationTypeFriendRequest  NotificationType = "friend_request"
	NotificationTypeFriendAccepted NotificationType = "friend_accepted"

	NotificationTypeGroupInvite          NotificationType = "group_invite"
	NotificationTypeGroupJoined          NotificationType = "group_joined"
	NotificationTypeGroupWatchlistAdd    NotificationType = "group_watchlist_add"
	NotificationTypeGroupJoinRequest     NotificationType = "group_join_request"
	NotificationTypeGroupRequestAccepted NotificationType = "group_request_accepted"
	NotificationTypeGroupRequestRejected NotificationType = "group_request_rejected"
	NotificationTypeGroupRemoved         NotificationType = "group_removed"

	NotificationTypeNewPrivateMessage NotificationType = "new_private_message"
	NotificationTypeAdminMessage      NotificationType = "admin_message"
	NotificationTypePostMentioned     NotificationType = "post_mentioned"
	NotificationTypeSharedMovieRec    NotificationType = "shared_movie_recommendation"
)

// EntityType identifies what kind of record a notification points at
type EntityType string

const (
	EntityTypePost    EntityType = "Post"
	EntityTypeComment EntityType = "Comment"
	EntityTypeGroup   EntityType = "Group"
	EntityTypeMessage EntityType = "Message"
	EntityTypeUser    EntityType = "User"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RecipientID string `gorm:"index;not null" json:"recipientId"`
	Recipient   User   `gorm:"foreignKey:RecipientID" json:"-"`

	// Nil for system notifications
	SenderID *string `gorm:"index" json:"senderId,omitempty"`
	Sender   *User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	Type NotificationType `gorm:"type:text;not null" json:"type"`

	// EntityType is required whenever EntityID is set
	EntityID   *string    `gorm:"index" json:"entityId,omitempty"`
	EntityType EntityType `gorm:"type:text" json:"entityType,omitempty"`

	Message string `gorm:"size:250" json:"message"`
	Read    bool   `gorm:"default:false;index" json:"read"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = utils.GenerateID()
	}
	return
}
