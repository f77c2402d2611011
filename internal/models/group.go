package models

import (
	"time"

	"github.com/fannypil/MovieSquad/pkg/utils"
	"gorm.io/gorm"
)

type Group struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsPrivate   bool   `gorm:"default:false" json:"isPrivate"`

	AdminID string `gorm:"index;not null" json:"adminId"`
	Admin   User   `gorm:"foreignKey:AdminID" json:"admin,omitempty"`

	Members        []User `gorm:"many2many:group_members" json:"members,omitempty"`
	PendingMembers []User `gorm:"many2many:group_pending_members" json:"pendingMembers,omitempty"`

	Watchlist []GroupWatchlistItem `gorm:"foreignKey:GroupID" json:"sharedWatchlist,omitempty"`
}

// GroupWatchlistItem is one movie/show on a group's shared watchlist
type GroupWatchlistItem struct {
	ID      string `gorm:"primaryKey;type:text" json:"id"`
	GroupID string `gorm:"index;not null" json:"groupId"`

	TmdbID         int    `gorm:"not null" json:"tmdbId"`
	TmdbType       string `gorm:"type:text;not null" json:"tmdbType"` // movie | tv
	TmdbTitle      string `gorm:"not null" json:"tmdbTitle"`
	TmdbPosterPath string `json:"tmdbPosterPath"`

	AddedByID string    `gorm:"index;not null" json:"addedBy"`
	AddedAt   time.Time `json:"addedAt"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = utils.GenerateID()
	}
	return
}

func (w *GroupWatchlistItem) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = utils.GenerateID()
	}
	if w.AddedAt.IsZero() {
		w.AddedAt = time.Now()
	}
	return
}
