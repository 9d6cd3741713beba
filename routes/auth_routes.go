package routes

import (
	"github.com/hyeonjun-dev/fitcenter/handlers"
	"github.com/hyeonjun-dev/fitcenter/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup/member", handlers.RegisterMember)
	auth.Post("/signup/trainer", handlers.RegisterTrainer)
	auth.Post("/login", handlers.Login)

	account := api.Group("/account", middleware.Protected())
	account.Patch("/password", handlers.UpdatePassword)
	account.Delete("/withdraw", middleware.MemberRequired(), handlers.Withdraw)
}
