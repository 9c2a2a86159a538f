package feed

import (
	"context"
	"time"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/cache"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/anonto42/pulsegram/backend/internal/storage"
	"go.uber.org/zap"
)

// StoryEngine is the ephemeral-content sibling of the feed engine: the same
// follow-graph sourcing, restricted to unexpired stories and grouped by
// author.
type StoryEngine struct {
	stories     repositories.StoryRepository
	users       repositories.UserRepository
	follows     repositories.FollowRepository
	followCache *cache.FollowingCache
	media       storage.MediaStore
	now         func() time.Time
	log         *zap.Logger
}

// NewStoryEngine creates a story engine. followCache and media may be nil;
// now defaults to time.Now and exists so expiry is testable.
func NewStoryEngine(
	stories repositories.StoryRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	followCache *cache.FollowingCache,
	media storage.MediaStore,
	now func() time.Time,
	log *zap.Logger,
) *StoryEngine {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StoryEngine{
		stories:     stories,
		users:       users,
		follows:     follows,
		followCache: followCache,
		media:       media,
		now:         now,
		log:         log,
	}
}

// StoryGroup is one author's active stories, newest first.
type StoryGroup struct {
	Author  models.UserCompact `json:"author"`
	Stories []models.Story     `json:"stories"`
}

// CreateStory persists a story expiring a fixed 24 hours after creation.
func (e *StoryEngine) CreateStory(ctx context.Context, author uint, mediaURL, mediaType string) (*models.Story, error) {
	if mediaURL == "" {
		return nil, apperrors.InvalidArgument("media is required")
	}
	if mediaType == "" {
		mediaType = "image"
	}
	now := e.now()
	story := &models.Story{
		UserID:    author,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		ExpiresAt: now.Add(models.StoryTTL),
		CreatedAt: now,
	}
	if err := e.stories.CreateStory(story); err != nil {
		return nil, apperrors.Unavailable("failed to create story", err)
	}
	return story, nil
}

// FeedStories returns active stories from the viewer's follow graph plus the
// viewer's own, grouped by author. Groups are ordered by their newest story;
// stories within a group are newest first.
func (e *StoryEngine) FeedStories(ctx context.Context, viewer uint) ([]StoryGroup, error) {
	followingIDs, err := e.followingIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	authorIDs := append(append([]uint{}, followingIDs...), viewer)

	stories, err := e.stories.GetActiveStoriesByAuthorIDs(authorIDs, e.now())
	if err != nil {
		return nil, apperrors.Unavailable("failed to load stories", err)
	}
	return e.group(stories)
}

// UserStories returns one author's active stories, newest first. Privacy
// enforcement belongs to the request-authorization boundary, not here.
func (e *StoryEngine) UserStories(ctx context.Context, author uint) ([]models.Story, error) {
	stories, err := e.stories.GetActiveStoriesByAuthorIDs([]uint{author}, e.now())
	if err != nil {
		return nil, apperrors.Unavailable("failed to load stories", err)
	}
	return stories, nil
}

// DeleteStory removes an owned story and its stored media.
func (e *StoryEngine) DeleteStory(ctx context.Context, requester, storyID uint) error {
	story, err := e.stories.GetStoryByID(storyID)
	if err != nil {
		return apperrors.NotFound("story not found")
	}
	if story.UserID != requester {
		return apperrors.Forbidden("not authorized to delete this story")
	}
	if e.media != nil && story.MediaURL != "" {
		if err := e.media.Delete(ctx, story.MediaURL); err != nil {
			e.log.Warn("failed to delete story media", zap.Uint("story_id", storyID), zap.Error(err))
		}
	}
	if err := e.stories.DeleteStory(storyID); err != nil {
		return apperrors.Unavailable("failed to delete story", err)
	}
	return nil
}

// group buckets stories by author keeping the input's newest-first order,
// both inside each group and across groups.
func (e *StoryEngine) group(stories []models.Story) ([]StoryGroup, error) {
	authorOrder := make([]uint, 0)
	byAuthor := make(map[uint][]models.Story)
	for _, s := range stories {
		if _, seen := byAuthor[s.UserID]; !seen {
			authorOrder = append(authorOrder, s.UserID)
		}
		byAuthor[s.UserID] = append(byAuthor[s.UserID], s)
	}

	users, err := e.users.GetUsersByIDs(authorOrder)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load story authors", err)
	}
	authorMap := make(map[uint]models.UserCompact, len(users))
	for _, u := range users {
		authorMap[u.ID] = u.ToCompact()
	}

	groups := make([]StoryGroup, 0, len(authorOrder))
	for _, authorID := range authorOrder {
		groups = append(groups, StoryGroup{
			Author:  authorMap[authorID],
			Stories: byAuthor[authorID],
		})
	}
	return groups, nil
}

func (e *StoryEngine) followingIDs(ctx context.Context, viewer uint) ([]uint, error) {
	if ids, hit := e.followCache.Get(ctx, viewer); hit {
		return ids, nil
	}
	ids, err := e.follows.GetFollowingIDs(viewer)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load follow graph", err)
	}
	e.followCache.Set(ctx, viewer, ids)
	return ids, nil
}
