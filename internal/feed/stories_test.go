package feed

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testClock is a settable clock for exercising story expiry.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStoryEngine(t *testing.T) (*StoryEngine, *gorm.DB, *testClock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.Follow{},
	))

	clock := &testClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	engine := NewStoryEngine(
		repositories.NewPostgresStoryRepository(db),
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresFollowRepository(db),
		nil,
		nil,
		clock.Now,
		nil,
	)
	return engine, db, clock
}

func TestCreateStorySetsFixedExpiry(t *testing.T) {
	engine, db, clock := newTestStoryEngine(t)
	author := createUser(t, db, "author")

	story, err := engine.CreateStory(context.Background(), author.ID, "https://cdn.example.com/s.jpg", "image")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(models.StoryTTL), story.ExpiresAt)

	_, err = engine.CreateStory(context.Background(), author.ID, "", "image")
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestFeedStoriesVisibleUntilExpiry(t *testing.T) {
	engine, db, clock := newTestStoryEngine(t)
	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")
	follow(t, db, viewer.ID, author.ID)

	_, err := engine.CreateStory(context.Background(), author.ID, "https://cdn.example.com/s.jpg", "image")
	require.NoError(t, err)

	groups, err := engine.FeedStories(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, author.ID, groups[0].Author.ID)

	// Just before the cutoff the story is still live.
	clock.Advance(models.StoryTTL - time.Second)
	groups, err = engine.FeedStories(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	// Past the cutoff it vanishes without any deletion having run.
	clock.Advance(2 * time.Second)
	groups, err = engine.FeedStories(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFeedStoriesIncludesViewersOwn(t *testing.T) {
	engine, db, _ := newTestStoryEngine(t)
	viewer := createUser(t, db, "viewer")

	_, err := engine.CreateStory(context.Background(), viewer.ID, "https://cdn.example.com/me.jpg", "image")
	require.NoError(t, err)

	groups, err := engine.FeedStories(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, viewer.ID, groups[0].Author.ID)
}

func TestFeedStoriesExcludesUnfollowedAuthors(t *testing.T) {
	engine, db, _ := newTestStoryEngine(t)
	viewer := createUser(t, db, "viewer")
	stranger := createUser(t, db, "stranger")

	_, err := engine.CreateStory(context.Background(), stranger.ID, "https://cdn.example.com/x.jpg", "image")
	require.NoError(t, err)

	groups, err := engine.FeedStories(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFeedStoriesGroupsByAuthorNewestFirst(t *testing.T) {
	engine, db, clock := newTestStoryEngine(t)
	viewer := createUser(t, db, "viewer")
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	follow(t, db, viewer.ID, alice.ID)
	follow(t, db, viewer.ID, bob.ID)

	first, err := engine.CreateStory(context.Background(), alice.ID, "https://cdn.example.com/1.jpg", "image")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = engine.CreateStory(context.Background(), bob.ID, "https://cdn.example.com/2.jpg", "image")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	third, err := engine.CreateStory(context.Background(), alice.ID, "https://cdn.example.com/3.jpg", "image")
	require.NoError(t, err)

	groups, err := engine.FeedStories(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Alice owns the newest story, so her group leads, with her stories
	// newest first inside it.
	assert.Equal(t, alice.ID, groups[0].Author.ID)
	require.Len(t, groups[0].Stories, 2)
	assert.Equal(t, third.ID, groups[0].Stories[0].ID)
	assert.Equal(t, first.ID, groups[0].Stories[1].ID)
	assert.Equal(t, bob.ID, groups[1].Author.ID)
}

func TestUserStoriesSkipsPrivacyCheck(t *testing.T) {
	engine, db, _ := newTestStoryEngine(t)
	author := createUser(t, db, "author")

	created, err := engine.CreateStory(context.Background(), author.ID, "https://cdn.example.com/u.jpg", "video")
	require.NoError(t, err)

	stories, err := engine.UserStories(context.Background(), author.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, created.ID, stories[0].ID)
}

func TestDeleteStoryOwnershipAndExistence(t *testing.T) {
	engine, db, _ := newTestStoryEngine(t)
	author := createUser(t, db, "author")
	intruder := createUser(t, db, "intruder")

	created, err := engine.CreateStory(context.Background(), author.ID, "https://cdn.example.com/d.jpg", "image")
	require.NoError(t, err)

	err = engine.DeleteStory(context.Background(), intruder.ID, created.ID)
	assert.True(t, apperrors.IsForbidden(err))

	err = engine.DeleteStory(context.Background(), author.ID, 9999)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, engine.DeleteStory(context.Background(), author.ID, created.ID))
	var count int64
	require.NoError(t, db.Model(&models.Story{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
