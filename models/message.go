package models

import "time"

// Message lifecycle states. A message may move active -> edited -> deleted or
// active -> deleted; deleted is terminal and its content is never sent to
// clients again.
const (
	MessageStatusActive  = "active"
	MessageStatusEdited  = "edited"
	MessageStatusDeleted = "deleted"
)

// RoomMessage is one group-chat message. The row survives a delete so room
// history keeps its ordering; only the status flips.
type RoomMessage struct {
	MessageID string     `gorm:"primaryKey;type:varchar(36)" json:"message_id"`
	RoomID    string     `gorm:"type:varchar(64);index" json:"room_id"`
	SenderID  string     `gorm:"type:varchar(36);index" json:"sender_id"`
	Content   string     `gorm:"type:text" json:"content"`
	Status    string     `gorm:"type:varchar(10);default:'active'" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	EditedAt  *time.Time `gorm:"default:NULL" json:"edited_at"`
}

// Deleted reports whether the message has been soft deleted.
func (m *RoomMessage) Deleted() bool {
	return m.Status == MessageStatusDeleted
}
