package handlers

import (
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	postRepository   repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		postRepository:   postRepo,
	}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PATCH("/users/me", h.UpdateMe)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:user_id", h.GetProfile)
}

// GetMe returns the authenticated user's own record
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// UpdateMe updates the authenticated user's profile fields
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Website != "" {
		user.Website = req.Website
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return httpError(apperrors.Unavailable("failed to update profile", err))
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// GetProfile returns a user's profile with social counts and the viewer's
// relationship to them. Posts of a private account stay hidden from
// non-followers.
func (h *UserHandler) GetProfile(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	followersCount, err := h.followRepository.GetFollowersCount(userID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load follow counts", err))
	}
	followingCount, err := h.followRepository.GetFollowingCount(userID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load follow counts", err))
	}
	isFollowing, err := h.followRepository.IsFollowing(viewerID, userID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load follow graph", err))
	}
	followsYou, err := h.followRepository.IsFollowing(userID, viewerID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load follow graph", err))
	}

	var posts []models.Post
	if viewerID == userID || !user.IsPrivate || isFollowing {
		posts, err = h.postRepository.GetPostsByUserID(userID)
		if err != nil {
			return httpError(apperrors.Unavailable("failed to load posts", err))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"user":            user,
		"followers_count": followersCount,
		"following_count": followingCount,
		"is_following":    isFollowing,
		"follows_you":     followsYou,
		"posts":           posts,
	})
}

// SearchUsers searches users by username or name prefix
func (h *UserHandler) SearchUsers(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.userRepository.SearchUsers(query, 20)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to search users", err))
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": results})
}
