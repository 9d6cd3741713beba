package handlers

import (
	"errors"
	"log"

	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/services"
	"github.com/gofiber/fiber/v2"
)

type MonthlyReportRequest struct {
	Month string `query:"month" validate:"required,datetime=2006-01"`
}

// GetMonthlyReport renders the caller's monthly activity report to PDF and
// returns the download URL. Rendering launches headless Chrome, so this is
// the slowest endpoint in the API.
func GetMonthlyReport(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req MonthlyReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	url, err := services.GenerateMonthlyReport(database.DB, accountID, req.Month)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
		}
		log.Printf("🔥 Monthly report generation failed for %s: %v", accountID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate report"})
	}

	return c.JSON(fiber.Map{"message": "Monthly report generated", "data": fiber.Map{"report_url": url}})
}
