package models

import "time"

// User is a platform account. Counselors are regular accounts with the
// counselor capability set; private chat is only valid across the
// user/counselor boundary.
type User struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username    string    `gorm:"unique;not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"type:varchar(64)" json:"display_name"`
	IsCounselor bool      `gorm:"default:false" json:"is_counselor"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
