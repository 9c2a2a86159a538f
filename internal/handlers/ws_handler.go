package handlers

import (
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/chat"
	"github.com/anonto42/pulsegram/backend/internal/middleware"
	"github.com/anonto42/pulsegram/backend/internal/realtime"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// Client frame events accepted on the websocket.
const (
	frameJoinChat   = "join_chat"
	frameLeaveChat  = "leave_chat"
	frameTyping     = "typing"
	frameStopTyping = "stop_typing"
)

// wsFrame is an inbound control frame from the client.
type wsFrame struct {
	Event  string `json:"event"`
	ChatID uint   `json:"chat_id"`
}

// WSHandler upgrades authenticated clients to a websocket and bridges them
// to the realtime hub. It carries no state of its own: subscriptions live in
// the hub and vanish with the connection.
type WSHandler struct {
	hub            *realtime.Hub
	chatService    *chat.Service
	chatRepository repositories.ChatRepository
	jwtSecret      string
	log            *zap.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *realtime.Hub, chatService *chat.Service, chatRepo repositories.ChatRepository, jwtSecret string, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		hub:            hub,
		chatService:    chatService,
		chatRepository: chatRepo,
		jwtSecret:      jwtSecret,
		log:            log,
	}
}

// RegisterWSRoutes registers the websocket endpoint
func (h *WSHandler) RegisterWSRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve authenticates the client via a token query parameter and hands the
// connection to the frame loop. Browsers cannot set an Authorization header
// on a websocket upgrade.
func (h *WSHandler) Serve(c echo.Context) error {
	claims, err := middleware.ParseToken(h.jwtSecret, c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	websocket.Handler(func(ws *websocket.Conn) {
		h.serve(ws, claims.UserID)
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

func (h *WSHandler) serve(ws *websocket.Conn, userID uint) {
	conn := h.hub.Register(userID)
	defer h.hub.CloseConn(conn)

	// Every client always hears their personal channel.
	h.hub.Subscribe(conn, realtime.UserChannel(userID))

	// Writer drains the hub-side buffer; closing the conn ends the range
	// and tears down the socket, which in turn unblocks the reader.
	go func() {
		for ev := range conn.Events() {
			if err := websocket.JSON.Send(ws, ev); err != nil {
				break
			}
		}
		ws.Close()
	}()

	for {
		var frame wsFrame
		if err := websocket.JSON.Receive(ws, &frame); err != nil {
			return
		}

		switch frame.Event {
		case frameJoinChat:
			if h.isParticipant(frame.ChatID, userID) {
				h.hub.Subscribe(conn, realtime.ChatChannel(frame.ChatID))
			}
		case frameLeaveChat:
			h.hub.Unsubscribe(conn, realtime.ChatChannel(frame.ChatID))
		case frameTyping:
			if h.isParticipant(frame.ChatID, userID) {
				h.chatService.PublishTyping(frame.ChatID, userID, false)
			}
		case frameStopTyping:
			if h.isParticipant(frame.ChatID, userID) {
				h.chatService.PublishTyping(frame.ChatID, userID, true)
			}
		default:
			h.log.Debug("ignoring unknown ws frame",
				zap.String("event", frame.Event),
				zap.Uint("user_id", userID),
			)
		}
	}
}

func (h *WSHandler) isParticipant(chatID, userID uint) bool {
	if chatID == 0 {
		return false
	}
	ok, err := h.chatRepository.IsParticipant(chatID, userID)
	if err != nil {
		h.log.Warn("participant check failed", zap.Uint("chat_id", chatID), zap.Error(err))
		return false
	}
	return ok
}
