package routes

import (
	"github.com/hyeonjun-dev/fitcenter/handlers"
	"github.com/hyeonjun-dev/fitcenter/middleware"
	"github.com/gofiber/fiber/v2"
)

func RecordRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	exercises := api.Group("/records/exercise", middleware.Protected())
	exercises.Post("", handlers.CreateExerciseRecord)
	exercises.Get("", handlers.GetExerciseRecords)
	exercises.Patch("/:id", handlers.UpdateExerciseRecord)
	exercises.Delete("/:id", handlers.DeleteExerciseRecord)
	exercises.Post("/:id/photo", handlers.UploadExercisePhoto)

	meals := api.Group("/records/meal", middleware.Protected())
	meals.Post("", handlers.CreateMealRecord)
	meals.Get("", handlers.GetMealRecords)
	meals.Patch("/:id", handlers.UpdateMealRecord)
	meals.Delete("/:id", handlers.DeleteMealRecord)
	meals.Post("/:id/photo", handlers.UploadMealPhoto)
}
