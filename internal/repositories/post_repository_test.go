package repositories

import (
	"testing"

	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPostRepo(t *testing.T) (*PostgresPostRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Bookmark{},
	))
	return NewPostgresPostRepository(db), db
}

func TestAddEngagementAppliesDelta(t *testing.T) {
	repo, db := newPostRepo(t)
	post := models.Post{UserID: 1, ImageURL: "https://cdn.example.com/a.jpg"}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, repo.AddEngagement(post.ID, 1))
	require.NoError(t, repo.AddEngagement(post.ID, 0.5))

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.InDelta(t, 1.5, got.EngagementScore, 1e-9)
}

func TestAddEngagementNeverGoesNegative(t *testing.T) {
	repo, db := newPostRepo(t)
	post := models.Post{UserID: 1, ImageURL: "https://cdn.example.com/a.jpg", EngagementScore: 0.5}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, repo.AddEngagement(post.ID, -2))

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Zero(t, got.EngagementScore)
}

func TestDeletePostCascades(t *testing.T) {
	repo, db := newPostRepo(t)
	post := models.Post{UserID: 1, ImageURL: "https://cdn.example.com/a.jpg"}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: 2}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: 2, Content: "nice"}).Error)
	require.NoError(t, db.Create(&models.Bookmark{PostID: post.ID, UserID: 2}).Error)

	require.NoError(t, repo.DeletePost(post.ID))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Bookmark{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
}
