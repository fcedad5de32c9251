package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is the authoritative local record for a blog comment. Posts live
// on Hashnode, so PostID belongs to Hashnode's identifier space while ID and
// ParentCommentID are local UUIDs. ContentMarkdown is the source of truth
// when mirroring upstream; Content holds the sanitized HTML served to
// readers.
type Comment struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID            string    `gorm:"size:64;not null;index" json:"post_id"`
	UserID            string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Content           string    `gorm:"type:text;not null" json:"content"`
	ContentMarkdown   string    `gorm:"type:text;not null" json:"content_markdown"`
	ParentCommentID   *string   `gorm:"type:uuid;index" json:"parent_comment_id"` // nil for top-level comments
	HashnodeCommentID *string   `gorm:"size:64" json:"hashnode_comment_id"`
	SyncedToHashnode  bool      `gorm:"not null;default:false" json:"synced_to_hashnode"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsTopLevel reports whether the comment starts a thread. Only top-level
// comments are mirrored to Hashnode.
func (c *Comment) IsTopLevel() bool {
	return c.ParentCommentID == nil || *c.ParentCommentID == ""
}
