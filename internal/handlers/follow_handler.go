package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/cache"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/notify"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles HTTP requests related to follows
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	followCache      *cache.FollowingCache
	notifier         *notify.Notifier
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, followCache *cache.FollowingCache, notifier *notify.Notifier) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		followCache:      followCache,
		notifier:         notifier,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:user_id/follow", h.FollowUser)
	g.DELETE("/users/:user_id/follow", h.UnfollowUser)
	g.GET("/users/:user_id/followers", h.GetFollowers)
	g.GET("/users/:user_id/following", h.GetFollowing)
}

// FollowUser creates a follow edge from the authenticated user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	followerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	followingID, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}
	if followerID == followingID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(followingID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	alreadyFollowing, err := h.followRepository.IsFollowing(followerID, followingID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load follow graph", err))
	}
	if alreadyFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this user")
	}

	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return httpError(apperrors.Unavailable("failed to follow user", err))
	}

	// The feed engine reads the follow set through the cache, so the edge
	// change must evict it.
	h.followCache.Invalidate(c.Request().Context(), followerID)

	actor, err := h.userRepository.GetUserByID(followerID)
	if err == nil {
		h.notifier.Notify(c.Request().Context(), &models.Notification{
			Type:         models.NotificationTypeFollow,
			ActorID:      followerID,
			RecipientID:  followingID,
			Content:      fmt.Sprintf("%s started following you", actor.Username),
			ResourceID:   followerID,
			ResourceType: "user",
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "follow": follow})
}

// UnfollowUser removes a follow edge
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	followerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	followingID, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}

	isFollowing, err := h.followRepository.IsFollowing(followerID, followingID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load follow graph", err))
	}
	if !isFollowing {
		return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
	}

	if err := h.followRepository.DeleteFollow(followerID, followingID); err != nil {
		return httpError(apperrors.Unavailable("failed to unfollow user", err))
	}

	h.followCache.Invalidate(c.Request().Context(), followerID)

	return c.NoContent(http.StatusNoContent)
}

// GetFollowers returns the users following the given user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}

	followers, err := h.followRepository.GetFollowers(userID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load followers", err))
	}

	results := make([]models.UserCompact, len(followers))
	for i, u := range followers {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "followers": results})
}

// GetFollowing returns the users the given user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}

	following, err := h.followRepository.GetFollowing(userID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load following", err))
	}

	results := make([]models.UserCompact, len(following))
	for i, u := range following {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": results})
}
