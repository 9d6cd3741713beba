package routes

import (
	"github.com/hyeonjun-dev/fitcenter/handlers"
	"github.com/hyeonjun-dev/fitcenter/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected(), middleware.MemberRequired())
	profile.Post("", handlers.CreateProfile)
	profile.Get("", handlers.GetProfile)
	profile.Patch("", handlers.UpdateProfile)
	profile.Post("/photo", handlers.UploadProfilePhoto)
}
