package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/miraheal/pulsechat/controllers"
)

// RegisterRoutes wires every HTTP and websocket endpoint.
func RegisterRoutes(
	ws *controllers.WSController,
	users *controllers.UserController,
	conversations *controllers.ConversationController,
	notifications *controllers.NotificationController,
	auth gin.HandlerFunc,
) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	r.Use(cors.New(corsConfig))

	// Websocket endpoints; all three authenticate at handshake.
	r.GET("/ws/rooms", ws.RoomWS)
	r.GET("/ws/chat", ws.ChatWS)
	r.GET("/ws/notifications", ws.NotificationWS)

	api := r.Group("/api")
	api.POST("/register", users.Register)
	api.POST("/login", users.Login)

	protected := api.Group("")
	protected.Use(auth)
	{
		protected.GET("/userinfo", users.GetUserInfo)
		protected.GET("/conversations", conversations.GetConversations)
		protected.GET("/conversations/:counterpart_id/messages", conversations.GetConversationMessages)
		protected.GET("/notifications/unread", notifications.GetUnread)
		protected.POST("/notifications/:id/read", notifications.MarkRead)
		protected.POST("/internal/notify", notifications.Notify)
	}

	return r
}
