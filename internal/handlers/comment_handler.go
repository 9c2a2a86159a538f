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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	notifier          *notify.Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifier *notify.Notifier) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		notifier:          notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsForPost)
	g.DELETE("/comments/:comment_id", h.DeleteComment)
}

// CreateComment adds a comment to a post and bumps its engagement score
func (h *CommentHandler) CreateComment(c echo.Context) error {
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
	if post.DisableComments {
		return echo.NewHTTPError(http.StatusForbidden, "Comments are disabled for this post")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return httpError(apperrors.Unavailable("failed to create comment", err))
	}

	if err := h.postRepository.AddEngagement(postID, commentEngagementDelta); err != nil {
		return httpError(apperrors.Unavailable("failed to update engagement score", err))
	}

	if post.UserID != userID {
		actor, err := h.userRepository.GetUserByID(userID)
		if err == nil {
			h.notifier.Notify(c.Request().Context(), &models.Notification{
				Type:         models.NotificationTypeComment,
				ActorID:      userID,
				RecipientID:  post.UserID,
				Content:      fmt.Sprintf("%s commented on your post", actor.Username),
				ResourceID:   postID,
				ResourceType: "post",
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "comment": comment})
}

// GetCommentsForPost returns a page of comments for a post
func (h *CommentHandler) GetCommentsForPost(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	limit, offset := parsePagination(c)
	if limit <= 0 {
		limit = 20
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID, limit, offset)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load comments", err))
	}
	count, err := h.commentRepository.GetCommentsCountByPostID(postID)
	if err != nil {
		return httpError(apperrors.Unavailable("failed to load comments", err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"comments": comments,
		"count":    count,
	})
}

// DeleteComment removes a comment; allowed for the comment author or the
// post owner. The engagement delta is reversed but never drives the score
// negative.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	post, err := h.postRepository.GetPostByID(comment.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if comment.UserID != userID && post.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(commentID); err != nil {
		return httpError(apperrors.Unavailable("failed to delete comment", err))
	}

	if err := h.postRepository.AddEngagement(comment.PostID, -commentEngagementDelta); err != nil {
		return httpError(apperrors.Unavailable("failed to update engagement score", err))
	}

	return c.NoContent(http.StatusNoContent)
}
