package repositories

import (
	"testing"
	"time"

	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newFollowRepo(t *testing.T) (*PostgresFollowRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}))
	return NewPostgresFollowRepository(db), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestIsFollowingDistinguishesDirection(t *testing.T) {
	repo, db := newFollowRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := repo.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestDeleteFollowMissingEdgeErrors(t *testing.T) {
	repo, db := newFollowRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.Error(t, repo.DeleteFollow(alice.ID, bob.ID))

	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, repo.DeleteFollow(alice.ID, bob.ID))

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestGetFollowersNewestEdgeFirst(t *testing.T) {
	repo, db := newFollowRepo(t)
	target := seedUser(t, db, "target")
	first := seedUser(t, db, "first")
	second := seedUser(t, db, "second")

	now := time.Now()
	require.NoError(t, db.Create(&models.Follow{FollowerID: first.ID, FollowingID: target.ID, CreatedAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: second.ID, FollowingID: target.ID, CreatedAt: now}).Error)

	followers, err := repo.GetFollowers(target.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "second", followers[0].Username)
	assert.Equal(t, "first", followers[1].Username)

	count, err := repo.GetFollowersCount(target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestGetFollowingAndIDsMatch(t *testing.T) {
	repo, db := newFollowRepo(t)
	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedUser(t, db, "stranger")

	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: viewer.ID, FollowingID: alice.ID}))
	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: viewer.ID, FollowingID: bob.ID}))

	following, err := repo.GetFollowing(viewer.ID)
	require.NoError(t, err)
	require.Len(t, following, 2)

	ids, err := repo.GetFollowingIDs(viewer.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, ids)

	count, err := repo.GetFollowingCount(viewer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
