package models

import "time"

// PrivateMessage is one message inside a user/counselor conversation. Same
// lifecycle as RoomMessage: content, status and edit timestamp are only
// mutable by the sender, and a deleted row keeps its place in history.
type PrivateMessage struct {
	MessageID      string     `gorm:"primaryKey;type:varchar(36)" json:"message_id"`
	ConversationID string     `gorm:"type:varchar(36);index" json:"conversation_id"`
	SenderID       string     `gorm:"type:varchar(36);index" json:"sender_id"`
	Content        string     `gorm:"type:text" json:"content"`
	Status         string     `gorm:"type:varchar(10);default:'active'" json:"status"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	EditedAt       *time.Time `gorm:"default:NULL" json:"edited_at"`
}

// Deleted reports whether the message has been soft deleted.
func (m *PrivateMessage) Deleted() bool {
	return m.Status == MessageStatusDeleted
}
