package main

import (
	"log"

	"github.com/miraheal/pulsechat/config"
	"github.com/miraheal/pulsechat/controllers"
	"github.com/miraheal/pulsechat/middlewares"
	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
	"github.com/miraheal/pulsechat/routes"
	"github.com/miraheal/pulsechat/services"
)

func main() {
	cfg := config.Load()
	db := config.InitDB(cfg)
	models.Migrate(db)

	users := repository.NewGormUserRepository(db)
	roomMessages := repository.NewGormRoomMessageRepository(db)
	conversations := repository.NewGormConversationRepository(db)
	privateMessages := repository.NewGormPrivateMessageRepository(db)
	notifications := repository.NewGormNotificationRepository(db)

	tokens := services.NewTokenService(cfg.JWTSecret)
	roomHub := services.NewRoomHub(roomMessages)
	chatHub := services.NewChatHub(services.NewPresence(), users, conversations, privateMessages)
	notifier := services.NewNotifier(services.NewPresence(), notifications)

	r := routes.RegisterRoutes(
		controllers.NewWSController(users, tokens, roomHub, chatHub, notifier),
		controllers.NewUserController(users, tokens),
		controllers.NewConversationController(users, conversations, privateMessages),
		controllers.NewNotificationController(notifications, notifier),
		middlewares.TokenAuthMiddleware(tokens, users),
	)

	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
