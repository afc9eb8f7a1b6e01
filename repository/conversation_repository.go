package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/miraheal/pulsechat/models"
)

type GormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) Create(conv *models.Conversation) error {
	return r.db.Create(conv).Error
}

func (r *GormConversationRepository) FindByID(id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.Where("conversation_id = ?", id).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *GormConversationRepository) FindByPair(userID, counselorID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Where("user_id = ? AND counselor_id = ?", userID, counselorID).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *GormConversationRepository) ListForParticipant(participantID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.
		Preload("UserAccount").
		Preload("CounselorAccount").
		Where("user_id = ? OR counselor_id = ?", participantID, participantID).
		Order("created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}
