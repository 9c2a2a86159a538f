package repositories

import (
	"time"

	"github.com/anonto42/pulsegram/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetMessagesByChatID(chatID uint, before *time.Time, limit int) ([]models.Message, error)
	GetMessagesByIDs(ids []uint) ([]models.Message, error)
	GetLatestMessage(chatID uint) (*models.Message, error)
	MarkRead(messageID uint) error
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetMessagesByChatID returns messages newest first. A non-nil before
// restricts to strictly earlier messages for backward pagination.
func (r *PostgresMessageRepository) GetMessagesByChatID(chatID uint, before *time.Time, limit int) ([]models.Message, error) {
	var messages []models.Message
	q := r.db.Where("chat_id = ?", chatID)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *PostgresMessageRepository) GetMessagesByIDs(ids []uint) ([]models.Message, error) {
	var messages []models.Message
	if len(ids) == 0 {
		return messages, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&messages).Error
	return messages, err
}

func (r *PostgresMessageRepository) GetLatestMessage(chatID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("chat_id = ?", chatID).Order("created_at DESC").Order("id DESC").First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *PostgresMessageRepository) MarkRead(messageID uint) error {
	return r.db.Model(&models.Message{}).Where("id = ?", messageID).Update("read", true).Error
}
