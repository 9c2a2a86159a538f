package models

import "time"

// Chat is a conversation between two or more users. Membership is fixed at
// creation; LastMessageAt is bumped on every message append.
type Chat struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	LastMessageAt time.Time `json:"last_message_at" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatParticipant links a user into a chat; unique per (chat, user)
type ChatParticipant struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	ChatID uint `json:"chat_id" gorm:"index;uniqueIndex:idx_chat_user"`
	UserID uint `json:"user_id" gorm:"index;uniqueIndex:idx_chat_user"`
}

// CreateChatRequest defines the request body for creating a chat
type CreateChatRequest struct {
	Participants []uint `json:"participants" validate:"required,min=1,dive,required"`
}
