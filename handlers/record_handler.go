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

// errResponded signals that a helper already wrote the error response.
var errResponded = errors.New("response already written")

type RecordRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Memo string `json:"memo" validate:"required,max=1000"`
}

type RecordUpdateRequest struct {
	Memo string `json:"memo" validate:"required,max=1000"`
}

type RecordDateRequest struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
}

func CreateExerciseRecord(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record := models.ExerciseRecord{AccountID: accountID, Date: req.Date, Memo: req.Memo}
	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create record"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Exercise record created", "data": record})
}

func GetExerciseRecords(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req RecordDateRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	records := []models.ExerciseRecord{}
	err := database.DB.Where("account_id = ? AND date = ?", accountID, req.Date).
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load records"})
	}

	return c.JSON(fiber.Map{"message": "Exercise records", "data": records})
}

func UpdateExerciseRecord(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var req RecordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var record models.ExerciseRecord
	if err := ownedRecord(&record, recordID, accountID, c); err != nil {
		return nil
	}

	if err := database.DB.Model(&record).Update("memo", req.Memo).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update record"})
	}

	return c.JSON(fiber.Map{"message": "Exercise record updated", "data": record})
}

func DeleteExerciseRecord(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var record models.ExerciseRecord
	if err := ownedRecord(&record, recordID, accountID, c); err != nil {
		return nil
	}

	if err := database.DB.Delete(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete record"})
	}

	return c.JSON(fiber.Map{"message": "Exercise record deleted", "data": nil})
}

func UploadExercisePhoto(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var record models.ExerciseRecord
	if err := ownedRecord(&record, recordID, accountID, c); err != nil {
		return nil
	}

	url, err := uploadRecordPhoto(c, "records/exercise", recordID)
	if err != nil {
		return nil
	}

	if err := database.DB.Model(&record).Update("photo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo URL"})
	}

	return c.JSON(fiber.Map{"message": "Photo uploaded", "data": fiber.Map{"photo_url": url}})
}

func CreateMealRecord(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record := models.MealRecord{AccountID: accountID, Date: req.Date, Memo: req.Memo}
	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create record"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Meal record created", "data": record})
}

func GetMealRecords(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req RecordDateRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	records := []models.MealRecord{}
	err := database.DB.Where("account_id = ? AND date = ?", accountID, req.Date).
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load records"})
	}

	return c.JSON(fiber.Map{"message": "Meal records", "data": records})
}

func UpdateMealRecord(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var req RecordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var record models.MealRecord
	if err := ownedRecord(&record, recordID, accountID, c); err != nil {
		return nil
	}

	if err := database.DB.Model(&record).Update("memo", req.Memo).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update record"})
	}

	return c.JSON(fiber.Map{"message": "Meal record updated", "data": record})
}

func DeleteMealRecord(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var record models.MealRecord
	if err := ownedRecord(&record, recordID, accountID, c); err != nil {
		return nil
	}

	if err := database.DB.Delete(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete record"})
	}

	return c.JSON(fiber.Map{"message": "Meal record deleted", "data": nil})
}

func UploadMealPhoto(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var record models.MealRecord
	if err := ownedRecord(&record, recordID, accountID, c); err != nil {
		return nil
	}

	url, err := uploadRecordPhoto(c, "records/meal", recordID)
	if err != nil {
		return nil
	}

	if err := database.DB.Model(&record).Update("photo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo URL"})
	}

	return c.JSON(fiber.Map{"message": "Photo uploaded", "data": fiber.Map{"photo_url": url}})
}

// ownedRecord loads a record by id and enforces that the caller owns it. On
// failure it writes the error response itself and returns errResponded.
func ownedRecord(dest any, recordID, accountID uuid.UUID, c *fiber.Ctx) error {
	if err := database.DB.First(dest, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load record"})
		}
		return errResponded
	}

	var ownerID uuid.UUID
	switch record := dest.(type) {
	case *models.ExerciseRecord:
		ownerID = record.AccountID
	case *models.MealRecord:
		ownerID = record.AccountID
	}
	if ownerID != accountID {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this record"})
		return errResponded
	}
	return nil
}

// uploadRecordPhoto validates and uploads a multipart photo. On failure it
// writes the error response itself and returns errResponded.
func uploadRecordPhoto(c *fiber.Ctx, directory string, recordID uuid.UUID) (string, error) {
	header, err := c.FormFile("photo")
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo file is required"})
		return "", errResponded
	}
	if header.Size > maxPhotoSize {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo must be 5MB or smaller"})
		return "", errResponded
	}
	if !allowedPhotoTypes[header.Header.Get("Content-Type")] {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only JPEG, PNG and WebP images are allowed"})
		return "", errResponded
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read photo"})
		return "", errResponded
	}
	defer file.Close()

	fileName := fmt.Sprintf("%s-%d-%s", recordID, time.Now().Unix(), header.Filename)
	url, err := storage.UploadFile(c.Context(), directory, fileName, file, header)
	if err != nil {
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
		return "", errResponded
	}
	return url, nil
}
