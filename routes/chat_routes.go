package routes

import (
	"github.com/hyeonjun-dev/fitcenter/handlers"
	"github.com/hyeonjun-dev/fitcenter/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func ChatRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	chats := api.Group("/chats", middleware.Protected())
	chats.Get("", middleware.TrainerRequired(), handlers.GetChatRooms)
	chats.Get("/me", middleware.MemberRequired(), handlers.GetMyChatRoom)
	chats.Get("/:chatId/messages", handlers.GetChatMessages)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
