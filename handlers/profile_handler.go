package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/hyeonjun-dev/fitcenter/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRequest struct {
	Age    *int     `json:"age" validate:"omitempty,min=1,max=120"`
	Gender *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Height *float64 `json:"height" validate:"omitempty,min=50,max=300"`
	Weight *float64 `json:"weight" validate:"omitempty,min=20,max=500"`
	Memo   *string  `json:"memo" validate:"omitempty,max=500"`
}

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

const maxPhotoSize = 5 * 1024 * 1024

func memberForAccount(accountID uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := database.DB.Where("account_id = ? AND is_deleted = ?", accountID, false).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func CreateProfile(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	member, err := memberForAccount(accountID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var count int64
	if err := database.DB.Model(&models.Profile{}).Where("member_id = ?", member.ID).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check profile"})
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Profile already exists"})
	}

	profile := models.Profile{
		MemberID: member.ID,
		Age:      req.Age,
		Gender:   req.Gender,
		Height:   req.Height,
		Weight:   req.Weight,
		Memo:     req.Memo,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Profile created", "data": profile})
}

func GetProfile(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	member, err := memberForAccount(accountID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	var profile models.Profile
	if err := database.DB.Where("member_id = ?", member.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile", "data": profile})
}

func UpdateProfile(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	member, err := memberForAccount(accountID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.Profile
	if err := database.DB.Where("member_id = ?", member.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	updates := map[string]any{}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Height != nil {
		updates["height"] = *req.Height
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Memo != nil {
		updates["memo"] = *req.Memo
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := database.DB.Model(&profile).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile updated", "data": profile})
}

// UploadProfilePhoto stores a new profile image in S3 and points the profile
// at the uploaded object.
func UploadProfilePhoto(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	member, err := memberForAccount(accountID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	var profile models.Profile
	if err := database.DB.Where("member_id = ?", member.ID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	header, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo file is required"})
	}
	if header.Size > maxPhotoSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo must be 5MB or smaller"})
	}
	if !allowedPhotoTypes[header.Header.Get("Content-Type")] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only JPEG, PNG and WebP images are allowed"})
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read photo"})
	}
	defer file.Close()

	fileName := fmt.Sprintf("%s-%d-%s", member.ID, time.Now().Unix(), header.Filename)
	url, err := storage.UploadFile(c.Context(), "profiles", fileName, file, header)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	if err := database.DB.Model(&profile).Update("photo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo URL"})
	}

	return c.JSON(fiber.Map{"message": "Photo uploaded", "data": fiber.Map{"photo_url": url}})
}
