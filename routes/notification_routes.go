package routes

import (
	"github.com/hyeonjun-dev/fitcenter/handlers"
	"github.com/hyeonjun-dev/fitcenter/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("", handlers.GetNotifications)
	notifications.Patch("/:id/read", handlers.MarkNotificationRead)
	notifications.Patch("/read-all", handlers.MarkAllNotificationsRead)
}
