package models

import (
	"time"

	"github.com/fannypil/MovieSquad/pkg/utils"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleGroupAdmin Role = "groupAdmin"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username       string `gorm:"uniqueIndex;not null" json:"username"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	ProfilePicture string `json:"profilePicture"`

	// Enum stored as string
	Role Role `gorm:"type:text;default:'user'" json:"role"`

	// Mutual friendship is two rows in user_friends, one per direction
	Friends []User `gorm:"many2many:user_friends;joinForeignKey:UserID;joinReferences:FriendID" json:"friends,omitempty"`

	Password string `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = utils.GenerateID()
	}
	return
}

// IsGlobalAdmin reports whether the user bypasses room authorization
func (u *User) IsGlobalAdmin() bool {
	return u.Role == RoleAdmin
}
