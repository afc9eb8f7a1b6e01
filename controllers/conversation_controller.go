package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miraheal/pulsechat/middlewares"
	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
	"github.com/miraheal/pulsechat/utils"
)

type ConversationController struct {
	users         repository.UserRepository
	conversations repository.ConversationRepository
	messages      repository.PrivateMessageRepository
}

func NewConversationController(
	users repository.UserRepository,
	conversations repository.ConversationRepository,
	messages repository.PrivateMessageRepository,
) *ConversationController {
	return &ConversationController{
		users:         users,
		conversations: conversations,
		messages:      messages,
	}
}

// HistoryItem is one message in a conversation history reply.
type HistoryItem struct {
	MessageID  string     `json:"message_id"`
	SenderID   string     `json:"sender_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at"`
	IsEdited   bool       `json:"is_edited"`
	SenderName string     `json:"sender_name"`
}

// GetConversations lists the authenticated user's conversations with the
// counterpart's public profile attached.
func (cc *ConversationController) GetConversations(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	conversations, err := cc.conversations.ListForParticipant(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}

	formatted := make([]gin.H, 0, len(conversations))
	for _, conv := range conversations {
		counterpart := conv.CounselorAccount
		if user.ID == conv.CounselorID {
			counterpart = conv.UserAccount
		}
		formatted = append(formatted, gin.H{
			"conversation_id": conv.ConversationID,
			"created_at":      conv.CreatedAt,
			"counterpart": gin.H{
				"user_id":      counterpart.ID,
				"username":     counterpart.Username,
				"display_name": counterpart.DisplayName,
				"is_counselor": counterpart.IsCounselor,
			},
		})
	}
	utils.RespondSuccess(c, formatted, nil)
}

// GetConversationMessages serves the pairwise history fetch: all non-deleted
// messages between the caller and the named counterpart, oldest first.
func (cc *ConversationController) GetConversationMessages(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	counterpartID := c.Param("counterpart_id")
	if counterpartID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Counterpart id is required")
		return
	}
	if counterpartID == user.ID {
		utils.RespondError(c, http.StatusBadRequest, "Cannot fetch a conversation with yourself")
		return
	}

	conv, err := cc.findPairConversation(user.ID, counterpartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, "No conversation with this user")
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch conversation")
		return
	}

	messages, err := cc.messages.ListByConversation(conv.ConversationID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	names, err := cc.displayNames(user, counterpartID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to resolve participants")
		return
	}

	history := make([]HistoryItem, 0, len(messages))
	for _, msg := range messages {
		history = append(history, HistoryItem{
			MessageID:  msg.MessageID,
			SenderID:   msg.SenderID,
			Content:    msg.Content,
			CreatedAt:  msg.CreatedAt,
			EditedAt:   msg.EditedAt,
			IsEdited:   msg.Status == models.MessageStatusEdited,
			SenderName: names[msg.SenderID],
		})
	}
	utils.RespondSuccess(c, history, nil)
}

// findPairConversation probes both participant orderings, since the caller
// may be either side of the normalized pair.
func (cc *ConversationController) findPairConversation(a, b string) (*models.Conversation, error) {
	conv, err := cc.conversations.FindByPair(a, b)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return cc.conversations.FindByPair(b, a)
}

func (cc *ConversationController) displayNames(user *models.User, counterpartID string) (map[string]string, error) {
	counterpart, err := cc.users.FindByID(counterpartID)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		user.ID:        user.DisplayName,
		counterpart.ID: counterpart.DisplayName,
	}, nil
}
