package models

import (
	"time"
)

// Profile is the local display profile for an auth user. The row is keyed
// by the auth service's user id; name and avatar are optional, readers fall
// back to the email local-part when a profile row is missing.
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
