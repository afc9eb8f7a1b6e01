package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miraheal/pulsechat/middlewares"
	"github.com/miraheal/pulsechat/repository"
	"github.com/miraheal/pulsechat/services"
	"github.com/miraheal/pulsechat/utils"
)

type NotificationController struct {
	notifications repository.NotificationRepository
	notifier      *services.Notifier
}

func NewNotificationController(notifications repository.NotificationRepository, notifier *services.Notifier) *NotificationController {
	return &NotificationController{notifications: notifications, notifier: notifier}
}

// GetUnread returns the caller's unread notifications, newest first.
func (nc *NotificationController) GetUnread(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	notifications, err := nc.notifications.ListUnread(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	utils.RespondSuccess(c, notifications, nil)
}

// MarkRead flags one notification as read. Re-marking a read notification is
// a success no-op; an unknown id is a 404.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := nc.notifications.MarkRead(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Notification not found")
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}
	utils.RespondSuccess(c, gin.H{"read": true}, nil)
}

// Notify is the internal hook other request handlers (likes, comments,
// follows) call to fan a notification out to a user.
func (nc *NotificationController) Notify(c *gin.Context) {
	var input struct {
		UserID      string `json:"user_id" binding:"required"`
		Message     string `json:"message" binding:"required"`
		Category    string `json:"category" binding:"required"`
		ReferenceID string `json:"reference_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	notification, err := nc.notifier.Notify(input.UserID, input.Message, input.Category, input.ReferenceID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create notification")
		return
	}
	utils.RespondSuccess(c, notification, nil)
}
