package realtime

import "fmt"

// Event names delivered to realtime subscribers.
const (
	EventReceiveMessage   = "receive_message"
	EventUserTyping       = "user_typing"
	EventUserStopTyping   = "user_stop_typing"
	EventUserNotification = "user_notification"
)

// Event is the envelope written to live connections.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TypingPayload is the data carried by typing indicator events.
type TypingPayload struct {
	ChatID uint `json:"chat_id"`
	UserID uint `json:"user_id"`
}

// ChatChannel names the channel carrying one conversation's events.
func ChatChannel(chatID uint) string {
	return fmt.Sprintf("chat:%d", chatID)
}

// UserChannel names a user's private notification channel.
func UserChannel(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}
