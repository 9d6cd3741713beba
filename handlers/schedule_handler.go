package handlers

import (
	"errors"

	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/services"
	"github.com/gofiber/fiber/v2"
)

type AvailableScheduleRequest struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
}

// GetAvailableSlots returns the fixed daily slot grid for the caller's
// trainer (a member sees their assigned trainer, a trainer sees themselves).
func GetAvailableSlots(c *fiber.Ctx) error {
	accountID, role := currentAccount(c)

	var req AvailableScheduleRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slots, err := services.AvailableTimeSlotsForAccount(database.DB, accountID, role, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No assigned trainer found"})
		case errors.Is(err, services.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load schedule"})
	}

	return c.JSON(fiber.Map{"message": "Available time slots", "data": slots})
}
