package handlers

import (
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/anonto42/pulsegram/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository     repositories.PostRepository
	userRepository     repositories.UserRepository
	likeRepository     repositories.LikeRepository
	commentRepository  repositories.CommentRepository
	bookmarkRepository repositories.BookmarkRepository
	media              storage.MediaStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	bookmarkRepo repositories.BookmarkRepository,
	media storage.MediaStore,
) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		userRepository:     userRepo,
		likeRepository:     likeRepo,
		commentRepository:  commentRepo,
		bookmarkRepository: bookmarkRepo,
		media:              media,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:post_id", h.GetPost)
	g.PATCH("/posts/:post_id", h.UpdatePost)
	g.DELETE("/posts/:post_id", h.DeletePost)
}

// CreatePost handles creating a new post. The image arrives either as a
// multipart file or as a pre-uploaded URL in the JSON body.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	post := &models.Post{UserID: userID}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
		}
		defer src.Close()

		contentType := file.Header.Get("Content-Type")
		url, err := h.media.Upload(c.Request().Context(), src, file.Size, contentType)
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to store image")
		}
		post.ImageURL = url
		post.Caption = c.FormValue("caption")
		post.Location = c.FormValue("location")
	} else {
		var req models.CreatePostRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
		post.ImageURL = req.ImageURL
		post.Caption = req.Caption
		post.Location = req.Location
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return httpError(apperrors.Unavailable("failed to create post", err))
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}

// GetPost returns a single post with author and viewer-specific state
func (h *PostHandler) GetPost(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
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

	author, err := h.userRepository.GetUserByID(post.UserID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load post author", err))
	}

	likers, err := h.likeRepository.GetLikerIDsByPostID(postID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load likes", err))
	}
	liked := false
	for _, id := range likers {
		if id == viewerID {
			liked = true
			break
		}
	}
	// The raw liker list never leaves the server when the owner hides likes.
	visibleLikes := likers
	if post.HideLikes || visibleLikes == nil {
		visibleLikes = []uint{}
	}

	commentsCount, err := h.commentRepository.GetCommentsCountByPostID(postID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load comments", err))
	}
	saved, err := h.bookmarkRepository.HasUserSavedPost(viewerID, postID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to check bookmark", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"post":           post,
		"author":         author.ToCompact(),
		"liked":          liked,
		"saved":          saved,
		"likes":          visibleLikes,
		"likes_count":    len(likers),
		"comments_count": commentsCount,
	})
}

// UpdatePost updates a post's caption, location and visibility toggles
func (h *PostHandler) UpdatePost(c echo.Context) error {
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
	if post.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update this post")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Caption != "" {
		post.Caption = req.Caption
	}
	if req.Location != "" {
		post.Location = req.Location
	}
	if req.HideLikes != nil {
		post.HideLikes = *req.HideLikes
	}
	if req.DisableComments != nil {
		post.DisableComments = *req.DisableComments
	}

	if err := h.postRepository.UpdatePost(post); err != nil {
		return httpError(apperrors.Unavailable("failed to update post", err))
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

// DeletePost removes an owned post together with its likes, comments,
// bookmarks and stored media
func (h *PostHandler) DeletePost(c echo.Context) error {
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
	if post.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this post")
	}

	if h.media != nil && post.ImageURL != "" {
		// Best effort: a dangling object is preferable to a post that
		// cannot be deleted.
		_ = h.media.Delete(c.Request().Context(), post.ImageURL)
	}

	if err := h.postRepository.DeletePost(postID); err != nil {
		return httpError(apperrors.Unavailable("failed to delete post", err))
	}

	return c.NoContent(http.StatusNoContent)
}
