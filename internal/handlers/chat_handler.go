package handlers

import (
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/chat"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chatService *chat.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chats", h.CreateChat)
	g.GET("/chats", h.GetUserChats)
	g.GET("/chats/:chat_id", h.GetChat)
}

// CreateChat creates a conversation with the given participants
func (h *ChatHandler) CreateChat(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	summary, err := h.chatService.CreateChat(c.Request().Context(), userID, req.Participants)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "chat": summary})
}

// GetUserChats returns the authenticated user's chats, most recently
// active first
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	chats, err := h.chatService.ListUserChats(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "chats": chats})
}

// GetChat returns a single chat with its participants
func (h *ChatHandler) GetChat(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	chatID, err := parseUintParam(c, "chat_id")
	if err != nil {
		return err
	}

	summary, err := h.chatService.GetChat(c.Request().Context(), userID, chatID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "chat": summary})
}
