package models

import (
	"time"

	"github.com/fannypil/MovieSquad/pkg/utils"
	"gorm.io/gorm"
)

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest tracks a pending friendship between two users
type FriendRequest struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	SenderID string `gorm:"index;uniqueIndex:idx_sender_receiver" json:"senderId"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	ReceiverID string `gorm:"index;uniqueIndex:idx_sender_receiver" json:"receiverId"`
	Receiver   User   `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`

	Status FriendRequestStatus `gorm:"type:text;default:'pending'" json:"status"`
}

func (fr *FriendRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if fr.ID == "" {
		fr.ID = utils.GenerateID()
	}
	return
}
