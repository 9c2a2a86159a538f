package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/realtime"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *realtime.Hub) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
	))

	hub := realtime.NewHub(nil, nil)
	svc := NewService(
		repositories.NewPostgresChatRepository(db),
		repositories.NewPostgresMessageRepository(db),
		repositories.NewPostgresUserRepository(db),
		hub,
		nil,
	)
	return svc, db, hub
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Username: fmt.Sprintf("user%d", i+1),
			Email:    fmt.Sprintf("user%d@example.com", i+1),
			Password: "hashed",
		}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	return users
}

func TestCreateChatRequiresTwoParticipants(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 1)

	_, err := svc.CreateChat(context.Background(), users[0].ID, nil)
	assert.True(t, apperrors.IsInvalidArgument(err))

	// The creator duplicated in the participant list does not count twice.
	_, err = svc.CreateChat(context.Background(), users[0].ID, []uint{users[0].ID})
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestCreateChatRejectsUnknownUsers(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 1)

	_, err := svc.CreateChat(context.Background(), users[0].ID, []uint{9999})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateChatIncludesCreator(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 2)

	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)
	require.Len(t, summary.Participants, 2)

	ids := map[uint]bool{}
	for _, p := range summary.Participants {
		ids[p.ID] = true
	}
	assert.True(t, ids[users[0].ID])
	assert.True(t, ids[users[1].ID])
}

func TestGetChatForbiddenForNonParticipant(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 3)

	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	_, err = svc.GetChat(context.Background(), users[2].ID, summary.ID)
	assert.True(t, apperrors.IsForbidden(err))

	_, err = svc.GetChat(context.Background(), users[0].ID, 9999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSendMessageValidation(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 3)
	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), users[0].ID, 9999, "hi", "", "")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.SendMessage(context.Background(), users[2].ID, summary.ID, "hi", "", "")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = svc.SendMessage(context.Background(), users[0].ID, summary.ID, "", "", "")
	assert.True(t, apperrors.IsInvalidArgument(err))

	// Media without text is a valid message.
	msg, err := svc.SendMessage(context.Background(), users[0].ID, summary.ID, "", "https://cdn.example.com/a.jpg", "image")
	require.NoError(t, err)
	assert.Empty(t, msg.Content)
	assert.Equal(t, "image", msg.MediaType)
}

func TestSendMessageBumpsLastMessageAtAndPublishes(t *testing.T) {
	svc, db, hub := newTestService(t)
	users := seedUsers(t, db, 2)
	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	conn := hub.Register(users[1].ID)
	defer hub.CloseConn(conn)
	hub.Subscribe(conn, realtime.ChatChannel(summary.ID))

	msg, err := svc.SendMessage(context.Background(), users[0].ID, summary.ID, "hello", "", "")
	require.NoError(t, err)

	select {
	case ev := <-conn.Events():
		assert.Equal(t, realtime.EventReceiveMessage, ev.Event)
		delivered, ok := ev.Data.(*models.Message)
		require.True(t, ok)
		assert.Equal(t, msg.ID, delivered.ID)
	default:
		t.Fatal("expected receive_message event")
	}

	var chat models.Chat
	require.NoError(t, db.First(&chat, summary.ID).Error)
	assert.WithinDuration(t, msg.CreatedAt, chat.LastMessageAt, time.Second)
}

func TestListMessagesNewestFirstAndPaged(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 2)
	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		msg := models.Message{
			ChatID:    summary.ID,
			SenderID:  users[i%2].ID,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&msg).Error)
	}

	page, err := svc.ListMessages(context.Background(), users[0].ID, summary.ID, nil)
	require.NoError(t, err)
	require.Len(t, page, MessagePageSize)
	for i := 1; i < len(page); i++ {
		assert.False(t, page[i].CreatedAt.After(page[i-1].CreatedAt),
			"createdAt must be non-increasing")
	}
	assert.Equal(t, "message 24", page[0].Content)

	oldest := page[len(page)-1].CreatedAt
	earlier, err := svc.ListMessages(context.Background(), users[0].ID, summary.ID, &oldest)
	require.NoError(t, err)
	require.Len(t, earlier, 5)
	for _, m := range earlier {
		assert.True(t, m.CreatedAt.Before(oldest))
	}
}

func TestListMessagesForbiddenForNonParticipant(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 3)
	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	_, err = svc.ListMessages(context.Background(), users[2].ID, summary.ID, nil)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestMarkReadSkipsOwnMessages(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 2)
	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)

	mine, err := svc.SendMessage(context.Background(), users[0].ID, summary.ID, "from me", "", "")
	require.NoError(t, err)
	theirs, err := svc.SendMessage(context.Background(), users[1].ID, summary.ID, "from them", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), users[0].ID, []uint{mine.ID, theirs.ID}))

	var got models.Message
	require.NoError(t, db.First(&got, mine.ID).Error)
	assert.False(t, got.Read, "a sender cannot mark their own message read")
	require.NoError(t, db.First(&got, theirs.ID).Error)
	assert.True(t, got.Read)
}

func TestMarkReadStopsAtFirstForbidden(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 3)
	mineChat, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)
	otherChat, err := svc.CreateChat(context.Background(), users[1].ID, []uint{users[2].ID})
	require.NoError(t, err)

	visible, err := svc.SendMessage(context.Background(), users[1].ID, mineChat.ID, "ok", "", "")
	require.NoError(t, err)
	hidden, err := svc.SendMessage(context.Background(), users[2].ID, otherChat.ID, "private", "", "")
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), users[0].ID, []uint{visible.ID, hidden.ID})
	assert.True(t, apperrors.IsForbidden(err))

	// The flip before the forbidden message stays applied.
	var got models.Message
	require.NoError(t, db.First(&got, visible.ID).Error)
	assert.True(t, got.Read)
	require.NoError(t, db.First(&got, hidden.ID).Error)
	assert.False(t, got.Read)
}

func TestMarkReadRequiresIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.MarkRead(context.Background(), 1, nil)
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestMarkReadIgnoresUnknownIDs(t *testing.T) {
	svc, db, _ := newTestService(t)
	users := seedUsers(t, db, 2)
	summary, err := svc.CreateChat(context.Background(), users[0].ID, []uint{users[1].ID})
	require.NoError(t, err)
	theirs, err := svc.SendMessage(context.Background(), users[1].ID, summary.ID, "hi", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), users[0].ID, []uint{9999, theirs.ID}))
	var got models.Message
	require.NoError(t, db.First(&got, theirs.ID).Error)
	assert.True(t, got.Read)
}
