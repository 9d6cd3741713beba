package handlers

import (
	"errors"
	"time"

	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/notifications"
	"github.com/hyeonjun-dev/fitcenter/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

func CreateReservation(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := services.CreateReservation(database.DB, accountID, req.Date, req.Time); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
		case errors.Is(err, services.ErrNoTrainerAssigned):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No trainer assigned"})
		case errors.Is(err, services.ErrNoCredits):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No remaining PT sessions"})
		case errors.Is(err, services.ErrDuplicateReservation):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Reservation already exists for this slot"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create reservation"})
	}

	go notifications.NotifyReservationChange(accountID,
		"PT session reserved for "+req.Date+" "+req.Time)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Reservation confirmed", "data": nil})
}

func CancelReservation(c *fiber.Ctx) error {
	accountID, role := currentAccount(c)

	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation id"})
	}

	if err := services.CancelReservation(database.DB, reservationID, accountID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reservation not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No permission to cancel this reservation"})
		case errors.Is(err, services.ErrAlreadyCancelled):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reservation is already cancelled"})
		case errors.Is(err, services.ErrCancelWindowPassed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reservations can only be cancelled more than 24 hours in advance"})
		case errors.Is(err, services.ErrSessionFinished):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot cancel a finished session"})
		case errors.Is(err, services.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel reservation"})
	}

	go notifications.NotifyReservationCancelled(reservationID)

	return c.JSON(fiber.Map{"message": "Reservation cancelled", "data": nil})
}

func GetMyReservations(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	result, err := services.GetMyReservations(database.DB, accountID, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load reservations"})
	}

	return c.JSON(fiber.Map{"message": "My reservations", "data": result})
}

type TrainerReservationsRequest struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
}

func GetTrainerReservations(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req TrainerReservationsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return trainerReservationsByDate(c, accountID, req.Date)
}

func GetTrainerTodayReservations(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)
	return trainerReservationsByDate(c, accountID, time.Now().Format("2006-01-02"))
}

func trainerReservationsByDate(c *fiber.Ctx, accountID uuid.UUID, date string) error {
	items, err := services.GetTrainerReservations(database.DB, accountID, date, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load reservations"})
	}

	return c.JSON(fiber.Map{"message": "Trainer reservations", "data": items})
}
