package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/miraheal/pulsechat/models"
)

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *GormNotificationRepository) ListUnread(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.
		Where("user_id = ? AND `read` = false", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead is idempotent: re-marking a read row succeeds, only an unknown id
// is an error. The existence probe is separate from the update because the
// update alone cannot tell "already read" from "missing".
func (r *GormNotificationRepository) MarkRead(id string) error {
	var n models.Notification
	if err := r.db.Where("notification_id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if n.Read {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("notification_id = ?", id).
		Update("read", true).Error
}
