package notify

import (
	"context"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/realtime"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"go.uber.org/zap"
)

// DefaultNotificationLimit is the page size for the notification inbox.
const DefaultNotificationLimit = 20

// Notifier persists notifications and mirrors them onto the recipient's
// personal channel. Persistence is the source of truth; a missed live event
// is still visible in the inbox.
type Notifier struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	hub           *realtime.Hub
	log           *zap.Logger
}

func NewNotifier(notifications repositories.NotificationRepository, users repositories.UserRepository, hub *realtime.Hub, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{notifications: notifications, users: users, hub: hub, log: log}
}

// InboxEntry is a notification with its actor's compact profile attached.
type InboxEntry struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

// Notify records an event for the recipient and pushes it to their live
// channel. Failures are logged and swallowed so the triggering operation
// (a like, a comment, a follow) never fails because of its side effect.
func (n *Notifier) Notify(ctx context.Context, notification *models.Notification) {
	if err := n.notifications.CreateNotification(notification); err != nil {
		n.log.Error("failed to persist notification",
			zap.String("type", notification.Type),
			zap.Uint("recipient_id", notification.RecipientID),
			zap.Error(err),
		)
		return
	}

	n.hub.Publish(realtime.UserChannel(notification.RecipientID), realtime.Event{
		Event: realtime.EventUserNotification,
		Data:  notification,
	})
}

// Inbox returns one page of the recipient's notifications, newest first with
// actor previews, together with their unread count.
func (n *Notifier) Inbox(ctx context.Context, recipientID uint, limit, offset int) ([]InboxEntry, int64, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	notifications, err := n.notifications.GetByRecipientID(recipientID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Unavailable("failed to load notifications", err)
	}
	unread, err := n.notifications.GetUnreadCount(recipientID)
	if err != nil {
		return nil, 0, apperrors.Unavailable("failed to count unread notifications", err)
	}

	actorSet := make(map[uint]struct{}, len(notifications))
	for _, notification := range notifications {
		actorSet[notification.ActorID] = struct{}{}
	}
	actorIDs := make([]uint, 0, len(actorSet))
	for id := range actorSet {
		actorIDs = append(actorIDs, id)
	}
	actors, err := n.users.GetUsersByIDs(actorIDs)
	if err != nil {
		return nil, 0, apperrors.Unavailable("failed to load notification actors", err)
	}
	actorMap := make(map[uint]models.UserCompact, len(actors))
	for _, u := range actors {
		actorMap[u.ID] = u.ToCompact()
	}

	entries := make([]InboxEntry, len(notifications))
	for i, notification := range notifications {
		entries[i] = InboxEntry{Notification: notification, Actor: actorMap[notification.ActorID]}
	}
	return entries, unread, nil
}

// MarkRead flips read=true on the recipient's notifications with the given
// ids. Ids belonging to other users are ignored, not an error. An empty id
// list marks everything read.
func (n *Notifier) MarkRead(ctx context.Context, recipientID uint, ids []uint) error {
	var err error
	if len(ids) == 0 {
		err = n.notifications.MarkAllAsRead(recipientID)
	} else {
		err = n.notifications.MarkAsRead(recipientID, ids)
	}
	if err != nil {
		return apperrors.Unavailable("failed to mark notifications read", err)
	}
	return nil
}
