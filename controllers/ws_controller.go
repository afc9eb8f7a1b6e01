package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
	"github.com/miraheal/pulsechat/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSController is the connection gateway: it authenticates handshakes,
// upgrades connections and hands them to the right hub. Every endpoint
// requires a valid token; the resolved identity rides on the connection for
// its whole lifetime.
type WSController struct {
	users    repository.UserRepository
	tokens   *services.TokenService
	roomHub  *services.RoomHub
	chatHub  *services.ChatHub
	notifier *services.Notifier
}

func NewWSController(
	users repository.UserRepository,
	tokens *services.TokenService,
	roomHub *services.RoomHub,
	chatHub *services.ChatHub,
	notifier *services.Notifier,
) *WSController {
	return &WSController{
		users:    users,
		tokens:   tokens,
		roomHub:  roomHub,
		chatHub:  chatHub,
		notifier: notifier,
	}
}

// RoomWS serves the group-chat endpoint.
func (w *WSController) RoomWS(c *gin.Context) {
	user, ok := w.authenticate(c)
	if !ok {
		return
	}
	client, ok := w.upgrade(c, user)
	if !ok {
		return
	}
	go client.WritePump()
	go w.roomHub.Serve(client)
}

// ChatWS serves the pairwise user/counselor chat endpoint.
func (w *WSController) ChatWS(c *gin.Context) {
	user, ok := w.authenticate(c)
	if !ok {
		return
	}
	client, ok := w.upgrade(c, user)
	if !ok {
		return
	}
	go client.WritePump()
	go w.chatHub.Serve(client)
}

// NotificationWS serves the per-user notification delivery channel.
func (w *WSController) NotificationWS(c *gin.Context) {
	user, ok := w.authenticate(c)
	if !ok {
		return
	}
	client, ok := w.upgrade(c, user)
	if !ok {
		return
	}
	go client.WritePump()
	go w.notifier.Serve(client)
}

// authenticate verifies the handshake token before any upgrade happens. The
// token travels as a query parameter because browser websocket clients
// cannot set headers.
func (w *WSController) authenticate(c *gin.Context) (*models.User, bool) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return nil, false
	}
	userID, err := w.tokens.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return nil, false
	}
	user, err := w.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	return user, true
}

func (w *WSController) upgrade(c *gin.Context, user *models.User) (*services.Client, bool) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return nil, false
	}
	return services.NewClient(conn, user.ID, user.DisplayName, user.IsCounselor), true
}
