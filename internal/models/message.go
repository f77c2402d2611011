package models

import (
	"time"

	"github.com/fannypil/MovieSquad/pkg/utils"
	"gorm.io/gorm"
)

// Message is one chat utterance: either a group message (GroupID set) or a
// private message (RecipientID + ChatIdentifier set), never both.
type Message struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	SenderID string `gorm:"index;not null" json:"senderId"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	GroupID *string `gorm:"index" json:"groupId,omitempty"`
	Group   *Group  `gorm:"foreignKey:GroupID" json:"-"`

	RecipientID *string `gorm:"index" json:"recipientId,omitempty"`
	Recipient   *User   `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`

	// Partition key for private-message history, derived from the two
	// participant ids; nil for group messages
	ChatIdentifier *string `gorm:"index" json:"chatIdentifier,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`

	ReadBy []MessageRead `gorm:"foreignKey:MessageID" json:"readBy,omitempty"`
}

// MessageRead is one reader entry of a message's readBy set
type MessageRead struct {
	MessageID string    `gorm:"primaryKey;type:text" json:"-"`
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	CreatedAt time.Time `json:"readAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = utils.GenerateID()
	}
	return
}

// IsPrivate reports whether the message belongs to a pairwise chat
func (m *Message) IsPrivate() bool {
	return m.RecipientID != nil
}
