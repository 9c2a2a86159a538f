package models

import "time"

// Post represents a social media post. EngagementScore is a ranking signal
// mutated atomically by comment/like lifecycle events and never goes negative.
type Post struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index"`
	ImageURL        string    `json:"image_url"`
	Caption         string    `json:"caption,omitempty"`
	Location        string    `json:"location,omitempty"`
	EngagementScore float64   `json:"engagement_score" gorm:"default:0;index"`
	HideLikes       bool      `json:"hide_likes" gorm:"default:false"`
	DisableComments bool      `json:"disable_comments" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	Caption  string `json:"caption,omitempty" validate:"omitempty,max=2200"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Caption         string `json:"caption,omitempty" validate:"omitempty,max=2200"`
	Location        string `json:"location,omitempty" validate:"omitempty,max=100"`
	HideLikes       *bool  `json:"hide_likes,omitempty"`
	DisableComments *bool  `json:"disable_comments,omitempty"`
}
