package handlers

import (
	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetNotifications(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	notifications := []models.Notification{}
	err := database.DB.Where("account_id = ?", accountID).
		Order("created_at desc").
		Limit(50).
		Find(&notifications).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notifications"})
	}

	return c.JSON(fiber.Map{"message": "Notifications", "data": notifications})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", notificationID, accountID).
		Update("is_read", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read", "data": nil})
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	err := database.DB.Model(&models.Notification{}).
		Where("account_id = ? AND is_read = ?", accountID, false).
		Update("is_read", true).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notifications"})
	}

	return c.JSON(fiber.Map{"message": "All notifications marked as read", "data": nil})
}
