package services

import (
	"errors"
	"time"

	"github.com/miraheal/pulsechat/repository"
)

// Outbound event types.
const (
	EventMessageReceived = "message-received"
	EventMessageSent     = "message-sent"
	EventMessageEdited   = "message-edited"
	EventMessageDeleted  = "message-deleted"
	EventUserTyping      = "user-typing"
	EventNewNotification = "new-notification"
	EventError           = "error"
)

// Inbound actions shared by the room and chat endpoints.
const (
	ActionJoin   = "join"
	ActionLeave  = "leave"
	ActionSend   = "send"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionTyping = "typing"
)

// Error codes carried on the error event so clients can tell a rejected
// input from a denied action or a transient store failure.
const (
	ErrorCodeInvalid   = "invalid"
	ErrorCodeDenied    = "denied"
	ErrorCodeNotFound  = "not_found"
	ErrorCodeTransient = "transient"
)

// Validation and authorization sentinels raised by the hubs.
var (
	ErrEmptyContent     = errors.New("content must not be empty")
	ErrMissingRoom      = errors.New("room id is required")
	ErrMissingRecipient = errors.New("recipient id is required")
	ErrSelfMessage      = errors.New("cannot message yourself")
	ErrPairNotEligible  = errors.New("private chat requires exactly one counselor participant")
	ErrRecipientUnknown = errors.New("recipient does not exist")
	ErrStoreFailure     = errors.New("temporary storage failure")
)

// RoomInbound is the envelope read off a room connection. UserID is accepted
// for wire compatibility but ignored: authorship always comes from the
// identity resolved at handshake.
type RoomInbound struct {
	Action    string `json:"action"`
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsTyping  bool   `json:"is_typing,omitempty"`
}

// ChatInbound is the envelope read off a pairwise chat connection.
type ChatInbound struct {
	Action      string `json:"action"`
	RecipientID string `json:"recipient_id,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	Content     string `json:"content,omitempty"`
}

// RoomMessageEvent announces a newly persisted room message.
type RoomMessageEvent struct {
	Type       string     `json:"type"`
	MessageID  string     `json:"message_id"`
	RoomID     string     `json:"room_id"`
	UserID     string     `json:"user_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	SenderName string     `json:"sender_name"`
	Deleted    bool       `json:"deleted"`
	EditedAt   *time.Time `json:"edited_at"`
}

// MessageEditedEvent announces an in-place content rewrite.
type MessageEditedEvent struct {
	Type      string     `json:"type"`
	MessageID string     `json:"message_id"`
	Content   string     `json:"content"`
	EditedAt  *time.Time `json:"edited_at"`
}

// MessageDeletedEvent carries only the id; clients tombstone locally.
type MessageDeletedEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
}

// TypingEvent is broadcast to the other room members, never persisted.
type TypingEvent struct {
	Type     string `json:"type"`
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
	IsTyping bool   `json:"is_typing"`
}

// PrivateMessageEvent is shared by message-sent, message-received and
// message-edited on the pairwise endpoint.
type PrivateMessageEvent struct {
	Type           string     `json:"type"`
	MessageID      string     `json:"message_id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	EditedAt       *time.Time `json:"edited_at"`
	SenderName     string     `json:"sender_name"`
}

// NotificationEvent is pushed on the per-user notification channel.
type NotificationEvent struct {
	Type           string    `json:"type"`
	NotificationID string    `json:"notification_id"`
	Message        string    `json:"message"`
	Category       string    `json:"category"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ErrorEvent is delivered to the originating connection only.
type ErrorEvent struct {
	Type   string `json:"type"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// NewErrorEvent maps a hub error to its wire shape.
func NewErrorEvent(err error) ErrorEvent {
	code := ErrorCodeInvalid
	switch {
	case errors.Is(err, ErrPairNotEligible):
		code = ErrorCodeDenied
	case errors.Is(err, repository.ErrNotOwnerOrMissing):
		code = ErrorCodeNotFound
	case errors.Is(err, ErrRecipientUnknown):
		code = ErrorCodeNotFound
	case errors.Is(err, ErrStoreFailure):
		code = ErrorCodeTransient
	}
	return ErrorEvent{Type: EventError, Code: code, Reason: err.Error()}
}
