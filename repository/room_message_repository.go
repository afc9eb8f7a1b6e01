package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/miraheal/pulsechat/models"
)

type GormRoomMessageRepository struct {
	db *gorm.DB
}

func NewGormRoomMessageRepository(db *gorm.DB) *GormRoomMessageRepository {
	return &GormRoomMessageRepository{db: db}
}

func (r *GormRoomMessageRepository) Create(msg *models.RoomMessage) error {
	return r.db.Create(msg).Error
}

func (r *GormRoomMessageRepository) FindByID(id string) (*models.RoomMessage, error) {
	var msg models.RoomMessage
	if err := r.db.Where("message_id = ?", id).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// UpdateContent is the ownership-checked conditional update: the WHERE clause
// carries the authorization decision and RowsAffected carries the verdict.
func (r *GormRoomMessageRepository) UpdateContent(id, senderID, content string, editedAt time.Time) error {
	res := r.db.Model(&models.RoomMessage{}).
		Where("message_id = ? AND sender_id = ? AND status <> ?", id, senderID, models.MessageStatusDeleted).
		Updates(map[string]interface{}{
			"content":   content,
			"status":    models.MessageStatusEdited,
			"edited_at": editedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotOwnerOrMissing
	}
	return nil
}

func (r *GormRoomMessageRepository) SoftDelete(id, senderID string) error {
	res := r.db.Model(&models.RoomMessage{}).
		Where("message_id = ? AND sender_id = ? AND status <> ?", id, senderID, models.MessageStatusDeleted).
		Update("status", models.MessageStatusDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotOwnerOrMissing
	}
	return nil
}
