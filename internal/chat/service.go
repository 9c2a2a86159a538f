package chat

import (
	"context"
	"time"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/realtime"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"go.uber.org/zap"
)

// MessagePageSize is the fixed page size for message history.
const MessagePageSize = 20

// Service enforces per-conversation append order and participant-scoped
// authorization. Message order is defined solely by the store's commit
// order; the hub only mirrors live events and is never a read path.
type Service struct {
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	hub      *realtime.Hub
	log      *zap.Logger
}

func NewService(
	chats repositories.ChatRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	hub *realtime.Hub,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		chats:    chats,
		messages: messages,
		users:    users,
		hub:      hub,
		log:      log,
	}
}

// ChatSummary is a chat with its participants and latest message preview.
type ChatSummary struct {
	models.Chat
	Participants []models.UserCompact `json:"participants"`
	LastMessage  *models.Message      `json:"last_message,omitempty"`
}

// CreateChat creates a conversation between the creator and the given
// participants. The creator is always included; membership is fixed after
// creation.
func (s *Service) CreateChat(ctx context.Context, creator uint, participantIDs []uint) (*ChatSummary, error) {
	all := dedupe(append([]uint{creator}, participantIDs...))
	if len(all) < 2 {
		return nil, apperrors.InvalidArgument("a chat needs at least two participants")
	}

	count, err := s.users.CountUsersByIDs(all)
	if err != nil {
		return nil, apperrors.Unavailable("failed to verify participants", err)
	}
	if count != int64(len(all)) {
		return nil, apperrors.NotFound("one or more users do not exist")
	}

	chat, err := s.chats.CreateChatWithParticipants(all)
	if err != nil {
		return nil, apperrors.Unavailable("failed to create chat", err)
	}

	return s.summarize(chat, all), nil
}

// GetChat returns the chat with its participants; only members may read it.
func (s *Service) GetChat(ctx context.Context, requester, chatID uint) (*ChatSummary, error) {
	chat, err := s.chats.GetChatByID(chatID)
	if err != nil {
		return nil, apperrors.NotFound("chat not found")
	}
	if err := s.requireParticipant(chatID, requester); err != nil {
		return nil, err
	}
	participantIDs, err := s.chats.GetParticipantIDs(chatID)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load participants", err)
	}
	return s.summarize(chat, participantIDs), nil
}

// ListUserChats returns the requester's chats ordered by last activity, each
// with participants and a latest-message preview.
func (s *Service) ListUserChats(ctx context.Context, requester uint) ([]ChatSummary, error) {
	chats, err := s.chats.GetChatsByUserID(requester)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load chats", err)
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		participantIDs, err := s.chats.GetParticipantIDs(chat.ID)
		if err != nil {
			return nil, apperrors.Unavailable("failed to load participants", err)
		}
		summary := s.summarize(&chat, participantIDs)
		if latest, err := s.messages.GetLatestMessage(chat.ID); err == nil {
			summary.LastMessage = latest
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// SendMessage appends a message to the chat and mirrors it to live
// subscribers. Durability comes from the store write; the publish is
// best-effort and never fails the call.
func (s *Service) SendMessage(ctx context.Context, sender, chatID uint, content, mediaURL, mediaType string) (*models.Message, error) {
	if _, err := s.chats.GetChatByID(chatID); err != nil {
		return nil, apperrors.NotFound("chat not found")
	}
	if err := s.requireParticipant(chatID, sender); err != nil {
		return nil, err
	}
	if content == "" && mediaURL == "" {
		return nil, apperrors.InvalidArgument("either content or media is required")
	}

	message := &models.Message{
		ChatID:    chatID,
		SenderID:  sender,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		CreatedAt: time.Now(),
	}
	if err := s.messages.CreateMessage(message); err != nil {
		return nil, apperrors.Unavailable("failed to send message", err)
	}

	if err := s.chats.TouchLastMessage(chatID, message.CreatedAt); err != nil {
		// The message is already durable; a stale lastMessageAt only skews
		// chat-list ordering until the next append.
		s.log.Warn("failed to bump last_message_at", zap.Uint("chat_id", chatID), zap.Error(err))
	}

	s.hub.Publish(realtime.ChatChannel(chatID), realtime.Event{
		Event: realtime.EventReceiveMessage,
		Data:  message,
	})

	return message, nil
}

// ListMessages returns one page of history, newest first. A non-nil before
// restricts to strictly earlier messages for backward pagination.
func (s *Service) ListMessages(ctx context.Context, requester, chatID uint, before *time.Time) ([]models.Message, error) {
	if _, err := s.chats.GetChatByID(chatID); err != nil {
		return nil, apperrors.NotFound("chat not found")
	}
	if err := s.requireParticipant(chatID, requester); err != nil {
		return nil, err
	}
	messages, err := s.messages.GetMessagesByChatID(chatID, before, MessagePageSize)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load messages", err)
	}
	return messages, nil
}

// MarkRead flips read=true on the given messages. Messages are processed in
// the order given; the call fails with Forbidden at the first message whose
// chat the requester is not in, leaving earlier flips applied. Messages the
// requester sent are silently skipped, as are unknown ids.
func (s *Service) MarkRead(ctx context.Context, requester uint, messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return apperrors.InvalidArgument("message ids are required")
	}

	messages, err := s.messages.GetMessagesByIDs(messageIDs)
	if err != nil {
		return apperrors.Unavailable("failed to load messages", err)
	}
	byID := make(map[uint]models.Message, len(messages))
	for _, m := range messages {
		byID[m.ID] = m
	}

	membership := make(map[uint]bool)
	for _, id := range messageIDs {
		message, ok := byID[id]
		if !ok {
			continue
		}
		isMember, known := membership[message.ChatID]
		if !known {
			var err error
			isMember, err = s.chats.IsParticipant(message.ChatID, requester)
			if err != nil {
				return apperrors.Unavailable("failed to verify chat membership", err)
			}
			membership[message.ChatID] = isMember
		}
		if !isMember {
			return apperrors.Forbidden("not authorized to mark these messages as read")
		}
		if message.SenderID == requester {
			// A sender cannot mark their own message read.
			continue
		}
		if err := s.messages.MarkRead(id); err != nil {
			return apperrors.Unavailable("failed to mark message read", err)
		}
	}
	return nil
}

// PublishTyping broadcasts an ephemeral typing indicator to the chat's live
// subscribers. No persistence and no ordering guarantee relative to
// message events.
func (s *Service) PublishTyping(chatID, userID uint, stopped bool) {
	name := realtime.EventUserTyping
	if stopped {
		name = realtime.EventUserStopTyping
	}
	s.hub.Publish(realtime.ChatChannel(chatID), realtime.Event{
		Event: name,
		Data:  realtime.TypingPayload{ChatID: chatID, UserID: userID},
	})
}

func (s *Service) requireParticipant(chatID, userID uint) error {
	isParticipant, err := s.chats.IsParticipant(chatID, userID)
	if err != nil {
		return apperrors.Unavailable("failed to verify chat membership", err)
	}
	if !isParticipant {
		return apperrors.Forbidden("not a participant of this chat")
	}
	return nil
}

func (s *Service) summarize(chat *models.Chat, participantIDs []uint) *ChatSummary {
	summary := &ChatSummary{Chat: *chat}
	users, err := s.users.GetUsersByIDs(participantIDs)
	if err != nil {
		s.log.Warn("failed to load chat participants", zap.Uint("chat_id", chat.ID), zap.Error(err))
		return summary
	}
	summary.Participants = make([]models.UserCompact, len(users))
	for i, u := range users {
		summary.Participants[i] = u.ToCompact()
	}
	return summary
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
