package handlers

import (
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles HTTP requests related to saved posts
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	postRepository     repositories.PostRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, postRepo repositories.PostRepository) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		postRepository:     postRepo,
	}
}

// RegisterBookmarkRoutes registers bookmark-related routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/bookmarks", h.SavePost)
	g.DELETE("/posts/:post_id/bookmarks", h.UnsavePost)
	g.GET("/bookmarks", h.GetSavedPosts)
}

// SavePost bookmarks a post for the authenticated user
func (h *BookmarkHandler) SavePost(c echo.Context) error {
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

	saved, err := h.bookmarkRepository.HasUserSavedPost(userID, postID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to check bookmark", err))
	}
	if saved {
		return echo.NewHTTPError(http.StatusConflict, "Post already saved")
	}

	bookmark := &models.Bookmark{
		UserID: userID,
		PostID: postID,
	}
	if err := h.bookmarkRepository.CreateBookmark(bookmark); err != nil {
		return httpError(apperrors.Unavailable("failed to save post", err))
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "bookmark": bookmark})
}

// UnsavePost removes a bookmark
func (h *BookmarkHandler) UnsavePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	saved, err := h.bookmarkRepository.HasUserSavedPost(userID, postID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to check bookmark", err))
	}
	if !saved {
		return echo.NewHTTPError(http.StatusNotFound, "Bookmark not found")
	}

	if err := h.bookmarkRepository.DeleteBookmark(userID, postID); err != nil {
		return httpError(apperrors.Unavailable("failed to remove bookmark", err))
	}

	return c.NoContent(http.StatusNoContent)
}

// GetSavedPosts returns the authenticated user's saved posts
func (h *BookmarkHandler) GetSavedPosts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	bookmarks, err := h.bookmarkRepository.GetBookmarksByUserID(userID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load bookmarks", err))
	}

	posts := make([]models.Post, 0, len(bookmarks))
	for _, b := range bookmarks {
		post, err := h.postRepository.GetPostByID(b.PostID)
		if err != nil {
			continue
		}
		posts = append(posts, *post)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "posts": posts})
}
