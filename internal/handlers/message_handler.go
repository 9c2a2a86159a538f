package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/pulsegram/backend/internal/chat"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles message HTTP requests
type MessageHandler struct {
	chatService *chat.Service
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(chatService *chat.Service) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/chats/:chat_id/messages", h.GetMessages)
	g.PATCH("/messages/read", h.MarkMessagesRead)
}

// SendMessage appends a message to a chat
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.chatService.SendMessage(c.Request().Context(), userID, req.ChatID, req.Content, req.MediaURL, req.MediaType)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": message})
}

// GetMessages returns one page of a chat's history, newest first. An
// optional RFC 3339 "before" parameter pages backwards.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	chatID, err := parseUintParam(c, "chat_id")
	if err != nil {
		return err
	}

	var before *time.Time
	if raw := c.QueryParam("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid before timestamp")
		}
		before = &parsed
	}

	messages, err := h.chatService.ListMessages(c.Request().Context(), userID, chatID, before)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "messages": messages})
}

// MarkMessagesRead flips read=true on the given messages
func (h *MessageHandler) MarkMessagesRead(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.MarkMessagesReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.chatService.MarkRead(c.Request().Context(), userID, req.MessageIDs); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
