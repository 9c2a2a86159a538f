package repositories

import (
	"github.com/anonto42/pulsegram/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByAuthorIDs(authorIDs []uint, limit, offset int) ([]models.Post, error)
	GetDiscoveryPosts(excludeAuthorIDs []uint, limit, offset int, randomTieBreak bool) ([]models.Post, error)
	GetPostsByUserID(userID uint) ([]models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	AddEngagement(postID uint, delta float64) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthorIDs returns posts authored by any of authorIDs, newest first.
func (r *PostgresPostRepository) GetPostsByAuthorIDs(authorIDs []uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := r.db.Where("user_id IN ?", authorIDs).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// GetDiscoveryPosts returns posts from authors outside excludeAuthorIDs,
// ranked by engagement score. The tie-break is createdAt for the feed
// backfill and random for the explore grid.
func (r *PostgresPostRepository) GetDiscoveryPosts(excludeAuthorIDs []uint, limit, offset int, randomTieBreak bool) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Limit(limit).Offset(offset)
	if len(excludeAuthorIDs) > 0 {
		q = q.Where("user_id NOT IN ?", excludeAuthorIDs)
	}
	if randomTieBreak {
		q = q.Order("engagement_score DESC").Order("RANDOM()")
	} else {
		q = q.Order("engagement_score DESC").Order("created_at DESC")
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostsByUserID(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost removes the post and its likes, comments and bookmarks in one
// transaction.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// AddEngagement applies delta to the post's engagement score in the database
// so concurrent updates are never lost. The score is floored at zero.
func (r *PostgresPostRepository) AddEngagement(postID uint, delta float64) error {
	return r.db.Model(&models.Post{}).Where("id = ?", postID).
		Update("engagement_score", gorm.Expr(
			"CASE WHEN engagement_score + ? < 0 THEN 0 ELSE engagement_score + ? END",
			delta, delta,
		)).Error
}
