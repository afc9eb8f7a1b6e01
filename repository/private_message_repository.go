package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/miraheal/pulsechat/models"
)

type GormPrivateMessageRepository struct {
	db *gorm.DB
}

func NewGormPrivateMessageRepository(db *gorm.DB) *GormPrivateMessageRepository {
	return &GormPrivateMessageRepository{db: db}
}

func (r *GormPrivateMessageRepository) Create(msg *models.PrivateMessage) error {
	return r.db.Create(msg).Error
}

func (r *GormPrivateMessageRepository) FindByID(id string) (*models.PrivateMessage, error) {
	var msg models.PrivateMessage
	if err := r.db.Where("message_id = ?", id).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *GormPrivateMessageRepository) UpdateContent(id, senderID, content string, editedAt time.Time) error {
	res := r.db.Model(&models.PrivateMessage{}).
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

func (r *GormPrivateMessageRepository) SoftDelete(id, senderID string) error {
	res := r.db.Model(&models.PrivateMessage{}).
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

func (r *GormPrivateMessageRepository) ListByConversation(conversationID string) ([]models.PrivateMessage, error) {
	var messages []models.PrivateMessage
	err := r.db.
		Where("conversation_id = ? AND status <> ?", conversationID, models.MessageStatusDeleted).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
