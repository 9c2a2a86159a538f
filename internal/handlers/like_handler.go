package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/notify"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// Engagement deltas applied to a post's ranking score.
const (
	likeEngagementDelta    = 1.0
	commentEngagementDelta = 0.5
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	notifier       *notify.Notifier
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifier *notify.Notifier) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		userRepository: userRepo,
		notifier:       notifier,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.GET("/posts/:post_id/likes", h.GetLikesForPost)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(postID, userID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to check like", err))
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
	}

	like := &models.Like{
		PostID: postID,
		UserID: userID,
	}
	if err := h.likeRepository.CreateLike(like); err != nil {
		return httpError(apperrors.Unavailable("failed to like post", err))
	}

	if err := h.postRepository.AddEngagement(postID, likeEngagementDelta); err != nil {
		return httpError(apperrors.Unavailable("failed to update engagement score", err))
	}

	if post.UserID != userID {
		actor, err := h.userRepository.GetUserByID(userID)
		if err == nil {
			h.notifier.Notify(c.Request().Context(), &models.Notification{
				Type:         models.NotificationTypeLike,
				ActorID:      userID,
				RecipientID:  post.UserID,
				Content:      fmt.Sprintf("%s liked your post", actor.Username),
				ResourceID:   postID,
				ResourceType: "post",
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "like": like})
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if err := h.likeRepository.DeleteLike(postID, userID); err != nil {
		if err.Error() == "like not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return httpError(apperrors.Unavailable("failed to unlike post", err))
	}

	if err := h.postRepository.AddEngagement(postID, -likeEngagementDelta); err != nil {
		return httpError(apperrors.Unavailable("failed to update engagement score", err))
	}

	return c.NoContent(http.StatusNoContent)
}

// GetLikesForPost returns the likers of a post, honoring the owner's
// hide-likes setting; the count is always visible
func (h *LikeHandler) GetLikesForPost(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	likers, err := h.likeRepository.GetLikerIDsByPostID(postID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load likes", err))
	}

	visible := likers
	if post.HideLikes || visible == nil {
		visible = []uint{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"post_id":     postID,
		"likes":       visible,
		"likes_count": len(likers),
	})
}
