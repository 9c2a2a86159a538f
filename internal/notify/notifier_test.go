package notify

import (
	"context"
	"testing"

	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/realtime"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestNotifier(t *testing.T) (*Notifier, *gorm.DB, *realtime.Hub) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}, &models.User{}))

	hub := realtime.NewHub(nil, nil)
	notifier := NewNotifier(
		repositories.NewPostgresNotificationRepository(db),
		repositories.NewPostgresUserRepository(db),
		hub,
		nil,
	)
	return notifier, db, hub
}

func TestNotifyPersistsAndPublishes(t *testing.T) {
	notifier, db, hub := newTestNotifier(t)

	conn := hub.Register(7)
	defer hub.CloseConn(conn)
	hub.Subscribe(conn, realtime.UserChannel(7))

	notifier.Notify(context.Background(), &models.Notification{
		Type:         models.NotificationTypeLike,
		ActorID:      3,
		RecipientID:  7,
		Content:      "liked your post",
		ResourceID:   42,
		ResourceType: "post",
	})

	var stored models.Notification
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, uint(7), stored.RecipientID)
	assert.False(t, stored.Read)

	select {
	case ev := <-conn.Events():
		assert.Equal(t, realtime.EventUserNotification, ev.Event)
		delivered, ok := ev.Data.(*models.Notification)
		require.True(t, ok)
		assert.Equal(t, stored.ID, delivered.ID)
	default:
		t.Fatal("expected user_notification event")
	}
}

func TestNotifyWithoutSubscriberStillPersists(t *testing.T) {
	notifier, db, _ := newTestNotifier(t)

	notifier.Notify(context.Background(), &models.Notification{
		Type:        models.NotificationTypeFollow,
		ActorID:     1,
		RecipientID: 2,
		Content:     "started following you",
	})

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInboxNewestFirstWithUnreadCount(t *testing.T) {
	notifier, db, _ := newTestNotifier(t)

	actor := models.User{Username: "actor", Email: "actor@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&actor).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			Type:        models.NotificationTypeComment,
			ActorID:     actor.ID,
			RecipientID: 2,
			Content:     "commented on your post",
		}).Error)
	}
	require.NoError(t, db.Create(&models.Notification{
		Type:        models.NotificationTypeLike,
		ActorID:     actor.ID,
		RecipientID: 99,
		Content:     "someone else's notification",
	}).Error)

	inbox, unread, err := notifier.Inbox(context.Background(), 2, 0, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 3)
	assert.EqualValues(t, 3, unread)
	for i := 1; i < len(inbox); i++ {
		assert.True(t, inbox[i].ID <= inbox[i-1].ID)
	}
	assert.Equal(t, "actor", inbox[0].Actor.Username)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	notifier, db, _ := newTestNotifier(t)

	mine := models.Notification{Type: models.NotificationTypeLike, ActorID: 1, RecipientID: 2}
	other := models.Notification{Type: models.NotificationTypeLike, ActorID: 1, RecipientID: 3}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, notifier.MarkRead(context.Background(), 2, []uint{mine.ID, other.ID}))

	var got models.Notification
	require.NoError(t, db.First(&got, mine.ID).Error)
	assert.True(t, got.Read)
	require.NoError(t, db.First(&got, other.ID).Error)
	assert.False(t, got.Read, "another recipient's notification must stay unread")
}

func TestMarkReadEmptyMarksAll(t *testing.T) {
	notifier, db, _ := newTestNotifier(t)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.Notification{
			Type:        models.NotificationTypeFollow,
			ActorID:     1,
			RecipientID: 2,
		}).Error)
	}

	require.NoError(t, notifier.MarkRead(context.Background(), 2, nil))

	_, unread, err := notifier.Inbox(context.Background(), 2, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}
