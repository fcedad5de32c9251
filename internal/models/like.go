package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like records one user's like on one post. The composite unique index is
// the invariant that keeps concurrent toggles from the same user from
// double-inserting: a raced duplicate surfaces as a duplicated-key error
// instead of a second row.
type Like struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID           string    `gorm:"size:64;not null;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_post_user" json:"user_id"`
	HashnodePostID   *string   `gorm:"size:64" json:"hashnode_post_id"`
	SyncedToHashnode bool      `gorm:"not null;default:false" json:"synced_to_hashnode"`
	CreatedAt        time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
