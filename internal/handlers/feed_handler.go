package handlers

import (
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/feed"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed and explore HTTP requests
type FeedHandler struct {
	engine *feed.Engine
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(engine *feed.Engine) *FeedHandler {
	return &FeedHandler{engine: engine}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/explore", h.GetExplore)
}

// GetFeed returns one page of the viewer's home feed together with
// suggested users to follow
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)

	posts, hasMore, err := h.engine.AssembleFeed(c.Request().Context(), viewerID, limit, offset)
	if err != nil {
		return httpError(err)
	}

	suggested, err := h.engine.SuggestedUsers(c.Request().Context(), viewerID, 0)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"posts":           posts,
		"suggested_users": suggested,
		"has_more":        hasMore,
	})
}

// GetExplore returns the engagement-ranked explore grid
func (h *FeedHandler) GetExplore(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)

	posts, hasMore, err := h.engine.AssembleExplore(c.Request().Context(), viewerID, limit, offset)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"posts":    posts,
		"has_more": hasMore,
	})
}
