package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
)

// ErrNotificationTarget indicates a notify call without a target user.
var ErrNotificationTarget = errors.New("notification target user id is required")

// Notifier persists user notifications and pushes them to any live
// notification-channel connections. Persistence is the success criterion;
// the push is a best-effort extra and an offline target is fine.
type Notifier struct {
	presence      *Presence
	notifications repository.NotificationRepository
}

func NewNotifier(presence *Presence, notifications repository.NotificationRepository) *Notifier {
	return &Notifier{presence: presence, notifications: notifications}
}

// Presence exposes the notification-channel registry for the gateway.
func (n *Notifier) Presence() *Presence {
	return n.presence
}

// Notify writes the notification row and then tries the live push. Called by
// any request handler that wants to tell a user something happened.
func (n *Notifier) Notify(userID, message, category, referenceID string) (*models.Notification, error) {
	if userID == "" {
		return nil, ErrNotificationTarget
	}

	notification := &models.Notification{
		NotificationID: uuid.New().String(),
		UserID:         userID,
		Message:        message,
		Category:       category,
		ReferenceID:    referenceID,
		Read:           false,
		CreatedAt:      time.Now(),
	}
	if err := n.notifications.Create(notification); err != nil {
		log.Printf("Failed to persist notification for user %s: %v", userID, err)
		return nil, err
	}

	delivered := n.presence.Deliver(userID, NotificationEvent{
		Type:           EventNewNotification,
		NotificationID: notification.NotificationID,
		Message:        notification.Message,
		Category:       notification.Category,
		ReferenceID:    notification.ReferenceID,
		CreatedAt:      notification.CreatedAt,
	})
	if delivered == 0 {
		log.Printf("User %s has no live notification channel, row %s awaits fetch", userID, notification.NotificationID)
	}
	return notification, nil
}

// Serve keeps one notification-channel connection registered until it
// closes. The channel is push-only; inbound frames are drained and ignored.
func (n *Notifier) Serve(c *Client) {
	n.presence.Register(c)
	defer func() {
		n.presence.Unregister(c)
		c.CloseSend()
		c.Conn.Close()
	}()

	c.PrepareRead()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
