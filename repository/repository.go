// Package repository is the narrow read/write surface over the relational
// store. Hubs and controllers only touch the database through these
// interfaces; the gorm-backed implementations live alongside them.
package repository

import (
	"errors"
	"time"

	"github.com/miraheal/pulsechat/models"
)

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwnerOrMissing is the outcome of a conditional update that
	// matched zero rows. A foreign message, a missing message and an
	// already-deleted message are indistinguishable here on purpose: the
	// ownership check and the existence check are one WHERE clause.
	ErrNotOwnerOrMissing = errors.New("message not found or not owned by requester")
)

type UserRepository interface {
	Create(user *models.User) error
	Save(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
}

type RoomMessageRepository interface {
	Create(msg *models.RoomMessage) error
	FindByID(id string) (*models.RoomMessage, error)
	// UpdateContent rewrites the content of a non-deleted message owned by
	// senderID. Returns ErrNotOwnerOrMissing when no row qualifies.
	UpdateContent(id, senderID, content string, editedAt time.Time) error
	// SoftDelete flips a non-deleted message owned by senderID to the
	// deleted status. Returns ErrNotOwnerOrMissing when no row qualifies.
	SoftDelete(id, senderID string) error
}

type ConversationRepository interface {
	Create(conv *models.Conversation) error
	FindByID(id string) (*models.Conversation, error)
	// FindByPair looks a conversation up by its normalized participant
	// columns. Returns ErrNotFound when the pair has never chatted.
	FindByPair(userID, counselorID string) (*models.Conversation, error)
	ListForParticipant(participantID string) ([]models.Conversation, error)
}

type PrivateMessageRepository interface {
	Create(msg *models.PrivateMessage) error
	FindByID(id string) (*models.PrivateMessage, error)
	UpdateContent(id, senderID, content string, editedAt time.Time) error
	SoftDelete(id, senderID string) error
	// ListByConversation returns the non-deleted messages of a conversation
	// ordered by creation time ascending.
	ListByConversation(conversationID string) ([]models.PrivateMessage, error)
}

type NotificationRepository interface {
	Create(n *models.Notification) error
	// ListUnread returns unread notifications for a user, newest first.
	ListUnread(userID string) ([]models.Notification, error)
	// MarkRead marks a notification read. Marking an already-read row is a
	// success no-op; an unknown id returns ErrNotFound.
	MarkRead(id string) error
}
