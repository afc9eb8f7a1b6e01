package models

import "time"

// Notification categories produced by the request handlers.
const (
	NotificationCategoryLike    = "like"
	NotificationCategoryComment = "comment"
	NotificationCategoryFollow  = "follow"
	NotificationCategorySystem  = "system"
)

// Notification is one targeted event for a user ("your post was liked").
// Rows are written first and pushed over the live channel only as a
// best-effort extra; unread rows are served by the polling API.
type Notification struct {
	NotificationID string    `gorm:"primaryKey;type:varchar(36)" json:"notification_id"`
	UserID         string    `gorm:"type:varchar(36);index" json:"user_id"`
	Message        string    `gorm:"type:varchar(255)" json:"message"`
	Category       string    `gorm:"type:varchar(20)" json:"category"`
	ReferenceID    string    `gorm:"type:varchar(36)" json:"reference_id,omitempty"`
	Read           bool      `gorm:"default:false" json:"read"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
