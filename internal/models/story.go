package models

import "time"

// Story is ephemeral content. ExpiresAt is fixed at creation (now + 24h);
// read paths must filter by expiry rather than rely on deletion.
type Story struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	MediaURL  string    `json:"media_url"`
	MediaType string    `json:"media_type" gorm:"size:10;default:'image'"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	MediaURL  string `json:"media_url" validate:"required,url"`
	MediaType string `json:"media_type" validate:"required,oneof=image video"`
}
