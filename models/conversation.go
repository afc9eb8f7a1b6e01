package models

import "time"

// Conversation is a private user/counselor chat thread. The participant
// columns are normalized at creation time: UserID always holds the
// non-counselor side regardless of who sent the first message, so one pair
// maps to exactly one row.
type Conversation struct {
	ConversationID string    `gorm:"primaryKey;type:varchar(36)" json:"conversation_id"`
	UserID         string    `gorm:"type:varchar(36);index" json:"user_id"`
	CounselorID    string    `gorm:"type:varchar(36);index" json:"counselor_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	UserAccount      User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	CounselorAccount User `gorm:"foreignKey:CounselorID;references:ID" json:"-"`
}

// Counterpart returns the other participant's id, or "" when userID is not a
// participant.
func (c *Conversation) Counterpart(userID string) string {
	switch userID {
	case c.UserID:
		return c.CounselorID
	case c.CounselorID:
		return c.UserID
	}
	return ""
}
