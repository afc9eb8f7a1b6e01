package models

import (
	"log"

	"gorm.io/gorm"
)

// Migrate runs schema auto-migration for every persisted model.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&User{},
		&RoomMessage{},
		&Conversation{},
		&PrivateMessage{},
		&Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}
