package feed

import (
	"context"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/cache"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"go.uber.org/zap"
)

const (
	DefaultFeedLimit    = 10
	DefaultExploreLimit = 24
	MaxPageLimit        = 50
	SuggestedUsersLimit = 5
)

// Engine assembles the home feed: posts from the follow graph first, then a
// one-shot discovery backfill ranked by engagement score.
type Engine struct {
	posts       repositories.PostRepository
	users       repositories.UserRepository
	follows     repositories.FollowRepository
	likes       repositories.LikeRepository
	bookmarks   repositories.BookmarkRepository
	followCache *cache.FollowingCache
	log         *zap.Logger
}

// NewEngine creates a feed engine. followCache may be nil.
func NewEngine(
	posts repositories.PostRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	likes repositories.LikeRepository,
	bookmarks repositories.BookmarkRepository,
	followCache *cache.FollowingCache,
	log *zap.Logger,
) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		posts:       posts,
		users:       users,
		follows:     follows,
		likes:       likes,
		bookmarks:   bookmarks,
		followCache: followCache,
		log:         log,
	}
}

// AnnotatedPost is a post enriched with author info and viewer-specific state.
// Likes carries the liker ids unless the post owner hides them.
type AnnotatedPost struct {
	models.Post
	Author     models.UserCompact `json:"author"`
	Liked      bool               `json:"liked"`
	Saved      bool               `json:"saved"`
	LikesCount int                `json:"likes_count"`
	Likes      []uint             `json:"likes"`
}

// ExplorePost is the minimal projection for the explore grid.
type ExplorePost struct {
	ID       uint   `json:"id"`
	ImageURL string `json:"image_url"`
	Author   string `json:"author"`
}

// AssembleFeed returns one page of the viewer's feed plus the hasMore
// heuristic (true iff the follow graph alone filled the page). The discovery
// backfill runs at most once per call and is recomputed per page; composition
// may shift between pages.
func (e *Engine) AssembleFeed(ctx context.Context, viewer uint, limit, offset int) ([]AnnotatedPost, bool, error) {
	limit = clampLimit(limit, DefaultFeedLimit)
	if offset < 0 {
		offset = 0
	}

	followingIDs, err := e.followingIDs(ctx, viewer)
	if err != nil {
		return nil, false, err
	}

	posts, err := e.posts.GetPostsByAuthorIDs(followingIDs, limit, offset)
	if err != nil {
		return nil, false, apperrors.Unavailable("failed to load feed posts", err)
	}

	// hasMore reflects the follow graph only: a page the backfill had to
	// complete does not promise another one.
	hasMore := len(posts) == limit

	// The follow graph did not fill the page; top up once with discovery
	// posts from authors outside the graph, ranked by engagement.
	if len(posts) < limit {
		exclude := append(append([]uint{}, followingIDs...), viewer)
		discovery, err := e.posts.GetDiscoveryPosts(exclude, limit-len(posts), 0, false)
		if err != nil {
			return nil, false, apperrors.Unavailable("failed to load discovery posts", err)
		}
		posts = append(posts, discovery...)
	}

	annotated, err := e.annotate(viewer, posts)
	if err != nil {
		return nil, false, err
	}

	return annotated, hasMore, nil
}

// SuggestedUsers returns users the viewer does not follow, in randomized
// order refreshed on every call.
func (e *Engine) SuggestedUsers(ctx context.Context, viewer uint, limit int) ([]models.UserCompact, error) {
	if limit <= 0 {
		limit = SuggestedUsersLimit
	}
	followingIDs, err := e.followingIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}

	exclude := append(append([]uint{}, followingIDs...), viewer)
	users, err := e.users.GetRandomUsersExcluding(exclude, limit)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load suggested users", err)
	}

	suggested := make([]models.UserCompact, len(users))
	for i, u := range users {
		suggested[i] = u.ToCompact()
	}
	return suggested, nil
}

// AssembleExplore returns engagement-ranked posts from outside the viewer's
// follow graph as a minimal projection with no per-viewer annotation.
func (e *Engine) AssembleExplore(ctx context.Context, viewer uint, limit, offset int) ([]ExplorePost, bool, error) {
	limit = clampLimit(limit, DefaultExploreLimit)
	if offset < 0 {
		offset = 0
	}

	followingIDs, err := e.followingIDs(ctx, viewer)
	if err != nil {
		return nil, false, err
	}

	exclude := append(append([]uint{}, followingIDs...), viewer)
	posts, err := e.posts.GetDiscoveryPosts(exclude, limit, offset, true)
	if err != nil {
		return nil, false, apperrors.Unavailable("failed to load explore posts", err)
	}

	usernames, err := e.usernamesByID(posts)
	if err != nil {
		return nil, false, err
	}

	result := make([]ExplorePost, len(posts))
	for i, p := range posts {
		result[i] = ExplorePost{ID: p.ID, ImageURL: p.ImageURL, Author: usernames[p.UserID]}
	}
	return result, len(posts) == limit, nil
}

// followingIDs resolves the viewer's follow set, consulting the cache first.
func (e *Engine) followingIDs(ctx context.Context, viewer uint) ([]uint, error) {
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

// annotate derives the viewer-specific fields for every candidate post.
func (e *Engine) annotate(viewer uint, posts []models.Post) ([]AnnotatedPost, error) {
	postIDs := make([]uint, len(posts))
	authorSet := make(map[uint]struct{}, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		authorSet[p.UserID] = struct{}{}
	}

	authorIDs := make([]uint, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}
	authors, err := e.users.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load post authors", err)
	}
	authorMap := make(map[uint]models.UserCompact, len(authors))
	for _, u := range authors {
		authorMap[u.ID] = u.ToCompact()
	}

	likerMap, err := e.likes.GetLikerIDsByPostIDs(postIDs)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load likes", err)
	}
	savedMap, err := e.bookmarks.GetSavedPostIDs(viewer, postIDs)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load bookmarks", err)
	}

	annotated := make([]AnnotatedPost, len(posts))
	for i, p := range posts {
		likers := likerMap[p.ID]
		liked := false
		for _, id := range likers {
			if id == viewer {
				liked = true
				break
			}
		}
		visible := likers
		if p.HideLikes {
			// The count survives; the raw liker list never leaves the server.
			visible = []uint{}
		} else if visible == nil {
			visible = []uint{}
		}
		annotated[i] = AnnotatedPost{
			Post:       p,
			Author:     authorMap[p.UserID],
			Liked:      liked,
			Saved:      savedMap[p.ID],
			LikesCount: len(likers),
			Likes:      visible,
		}
	}
	return annotated, nil
}

func (e *Engine) usernamesByID(posts []models.Post) (map[uint]string, error) {
	authorSet := make(map[uint]struct{}, len(posts))
	for _, p := range posts {
		authorSet[p.UserID] = struct{}{}
	}
	ids := make([]uint, 0, len(authorSet))
	for id := range authorSet {
		ids = append(ids, id)
	}
	users, err := e.users.GetUsersByIDs(ids)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load post authors", err)
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}
