package models

import "time"

// Notification types form a closed set.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeMention = "mention"
	NotificationTypeTag     = "tag"
)

// Notification represents a user notification
type Notification struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Type         string    `json:"type" gorm:"size:30;index"` // like, comment, follow, mention, tag
	ActorID      uint      `json:"actor_id" gorm:"index"`
	RecipientID  uint      `json:"recipient_id" gorm:"index"`
	Content      string    `json:"content,omitempty"`
	ResourceID   uint      `json:"resource_id,omitempty"`                // post ID, comment ID, etc.
	ResourceType string    `json:"resource_type,omitempty" gorm:"size:20"` // post, comment, user
	Read         bool      `json:"read" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// MarkNotificationsReadRequest defines the request body for marking
// notifications read; an empty id list means mark all.
type MarkNotificationsReadRequest struct {
	NotificationIDs []uint `json:"notification_ids"`
}
