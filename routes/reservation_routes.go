package routes

import (
	"github.com/hyeonjun-dev/fitcenter/handlers"
	"github.com/hyeonjun-dev/fitcenter/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReservationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	reservations := api.Group("/reservations", middleware.Protected())
	reservations.Post("", middleware.MemberRequired(), handlers.CreateReservation)
	reservations.Delete("/:id", handlers.CancelReservation)
	reservations.Get("/me", middleware.MemberRequired(), handlers.GetMyReservations)

	trainer := api.Group("/trainer/reservations", middleware.Protected(), middleware.TrainerRequired())
	trainer.Get("", handlers.GetTrainerReservations)
	trainer.Get("/today", handlers.GetTrainerTodayReservations)
}
