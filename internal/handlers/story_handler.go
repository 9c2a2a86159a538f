package handlers

import (
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/feed"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles story HTTP requests
type StoryHandler struct {
	engine *feed.StoryEngine
	media  storage.MediaStore
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(engine *feed.StoryEngine, media storage.MediaStore) *StoryHandler {
	return &StoryHandler{engine: engine, media: media}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories/feed", h.GetFeedStories)
	g.GET("/users/:user_id/stories", h.GetUserStories)
	g.DELETE("/stories/:story_id", h.DeleteStory)
}

// CreateStory publishes an ephemeral story. The media arrives either as a
// multipart file or as a pre-uploaded URL in the JSON body.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var mediaURL, mediaType string

	if file, err := c.FormFile("media"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read media")
		}
		defer src.Close()

		contentType := file.Header.Get("Content-Type")
		mediaURL, err = h.media.Upload(c.Request().Context(), src, file.Size, contentType)
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to store media")
		}
		mediaType = c.FormValue("media_type")
	} else {
		var req models.CreateStoryRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
		mediaURL = req.MediaURL
		mediaType = req.MediaType
	}

	story, err := h.engine.CreateStory(c.Request().Context(), userID, mediaURL, mediaType)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "story": story})
}

// GetFeedStories returns active stories from the viewer's follow graph,
// grouped by author
func (h *StoryHandler) GetFeedStories(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	groups, err := h.engine.FeedStories(c.Request().Context(), viewerID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "stories": groups})
}

// GetUserStories returns one user's active stories
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}

	stories, err := h.engine.UserStories(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "stories": stories})
}

// DeleteStory removes an owned story before its natural expiry
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	storyID, err := parseUintParam(c, "story_id")
	if err != nil {
		return err
	}

	if err := h.engine.DeleteStory(c.Request().Context(), userID, storyID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
