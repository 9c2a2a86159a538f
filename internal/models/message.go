package models

import "time"

// Message belongs to exactly one chat and one sender. Content and media are
// optional but never both empty. Read is flipped only by a non-sender
// participant.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChatID    uint      `json:"chat_id" gorm:"index"`
	SenderID  uint      `json:"sender_id" gorm:"index"`
	Content   string    `json:"content,omitempty"`
	MediaURL  string    `json:"media_url,omitempty"`
	MediaType string    `json:"media_type,omitempty" gorm:"size:10"`
	Read      bool      `json:"read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	ChatID    uint   `json:"chat_id" validate:"required"`
	Content   string `json:"content,omitempty" validate:"omitempty,max=2000"`
	MediaURL  string `json:"media_url,omitempty" validate:"omitempty,url"`
	MediaType string `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
}

// MarkMessagesReadRequest defines the request body for marking messages read
type MarkMessagesReadRequest struct {
	MessageIDs []uint `json:"message_ids" validate:"required,min=1,dive,required"`
}
