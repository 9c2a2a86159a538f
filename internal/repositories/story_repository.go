package repositories

import (
	"time"

	"github.com/anonto42/pulsegram/backend/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	GetActiveStoriesByAuthorIDs(authorIDs []uint, now time.Time) ([]models.Story, error)
	DeleteStory(id uint) error
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	return r.db.Create(story).Error
}

func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// GetActiveStoriesByAuthorIDs returns unexpired stories for the given
// authors, newest first. Expiry is a filter, never a deletion.
func (r *PostgresStoryRepository) GetActiveStoriesByAuthorIDs(authorIDs []uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	if len(authorIDs) == 0 {
		return stories, nil
	}
	err := r.db.Where("user_id IN ? AND expires_at > ?", authorIDs, now).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) DeleteStory(id uint) error {
	return r.db.Delete(&models.Story{}, id).Error
}
