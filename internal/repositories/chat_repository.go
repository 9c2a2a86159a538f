package repositories

import (
	"time"

	"github.com/anonto42/pulsegram/backend/internal/models"
	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat data operations
type ChatRepository interface {
	CreateChatWithParticipants(participantIDs []uint) (*models.Chat, error)
	GetChatByID(id uint) (*models.Chat, error)
	GetParticipantIDs(chatID uint) ([]uint, error)
	IsParticipant(chatID, userID uint) (bool, error)
	GetChatsByUserID(userID uint) ([]models.Chat, error)
	TouchLastMessage(chatID uint, at time.Time) error
}

// PostgresChatRepository implements ChatRepository for PostgreSQL
type PostgresChatRepository struct {
	db *gorm.DB
}

// NewPostgresChatRepository creates a new PostgresChatRepository
func NewPostgresChatRepository(db *gorm.DB) *PostgresChatRepository {
	return &PostgresChatRepository{db: db}
}

// CreateChatWithParticipants inserts the chat and its participant rows in a
// single transaction so a failed participant insert never leaves an orphan
// chat behind.
func (r *PostgresChatRepository) CreateChatWithParticipants(participantIDs []uint) (*models.Chat, error) {
	chat := &models.Chat{LastMessageAt: time.Now()}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		participants := make([]models.ChatParticipant, 0, len(participantIDs))
		for _, userID := range participantIDs {
			participants = append(participants, models.ChatParticipant{ChatID: chat.ID, UserID: userID})
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *PostgresChatRepository) GetChatByID(id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *PostgresChatRepository) GetParticipantIDs(chatID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ChatParticipant{}).Where("chat_id = ?", chatID).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PostgresChatRepository) IsParticipant(chatID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ChatParticipant{}).Where("chat_id = ? AND user_id = ?", chatID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresChatRepository) GetChatsByUserID(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.ChatParticipant{}).Select("chat_id").Where("user_id = ?", userID),
	).Order("last_message_at DESC").Find(&chats).Error
	return chats, err
}

func (r *PostgresChatRepository) TouchLastMessage(chatID uint, at time.Time) error {
	return r.db.Model(&models.Chat{}).Where("id = ?", chatID).Update("last_message_at", at).Error
}
