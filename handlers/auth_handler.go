package handlers

import (
	"errors"
	"log"
	"math/rand"
	"time"

	config "github.com/hyeonjun-dev/fitcenter/configs"
	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/hyeonjun-dev/fitcenter/notifications"
	"github.com/hyeonjun-dev/fitcenter/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

var assignRand = rand.New(rand.NewSource(time.Now().UnixNano()))

var errEmailTaken = errors.New("email already exists")

// currentAccount pulls the authenticated caller out of the JWT middleware.
func currentAccount(c *fiber.Ctx) (uuid.UUID, string) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["account_id"].(string))
	return accountID, claims["role"].(string)
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func RegisterMember(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errEmailTaken
		}

		email := req.Email
		account := models.Account{
			Email:    &email,
			Password: string(hashedPassword),
			Name:     req.Name,
			Role:     models.RoleMember,
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}

		trainer, err := services.AutoAssignTrainer(tx, assignRand)
		if err != nil {
			return err
		}

		member := models.Member{
			AccountID: account.ID,
			TrainerID: &trainer.ID,
			PtCount:   models.InitialPtCount,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		chat := models.Chat{MemberID: member.ID, TrainerID: trainer.ID}
		return tx.Create(&chat).Error
	})
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		if errors.Is(err, services.ErrNoTrainers) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No trainers are registered yet"})
		}
		log.Printf("🔥 Member signup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create member"})
	}

	go notifications.SendEmail(req.Name, req.Email, "Welcome to FitCenter!",
		"<h1>Welcome!</h1><p>Your membership is ready and a trainer has been assigned to you. Book your first PT session any time.</p>")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Signup complete", "data": nil})
}

func RegisterTrainer(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errEmailTaken
		}

		email := req.Email
		account := models.Account{
			Email:    &email,
			Password: string(hashedPassword),
			Name:     req.Name,
			Role:     models.RoleTrainer,
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}

		trainer := models.Trainer{AccountID: account.ID}
		return tx.Create(&trainer).Error
	})
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		log.Printf("🔥 Trainer signup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create trainer"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Trainer registered", "data": nil})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var account models.Account
	if err := database.DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"account_id": account.ID.String(),
		"role":       account.Role,
		"exp":        time.Now().Add(time.Hour * 72).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data": fiber.Map{
			"access_token": signed,
			"account_id":   account.ID,
			"role":         account.Role,
		},
	})
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func UpdatePassword(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.NewPassword != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Passwords do not match"})
	}

	var account models.Account
	if err := database.DB.First(&account, "id = ?", accountID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.OldPassword)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Current password is incorrect"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	account.Password = string(hashedPassword)
	if err := database.DB.Save(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update password"})
	}

	return c.JSON(fiber.Map{"message": "Password updated", "data": nil})
}

// Withdraw soft-deletes the calling member: the account is anonymized and the
// member keeps no trainer and no credits. Reservations stay for history.
func Withdraw(c *fiber.Ctx) error {
	accountID, role := currentAccount(c)
	if role != models.RoleMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only members can withdraw"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.Where("account_id = ? AND is_deleted = ?", accountID, false).
			First(&member).Error; err != nil {
			return services.ErrNotFound
		}

		updates := map[string]any{
			"is_deleted": true,
			"trainer_id": nil,
			"pt_count":   0,
		}
		if err := tx.Model(&member).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Model(&models.Account{}).
			Where("id = ?", accountID).
			Updates(map[string]any{"name": "Withdrawn member", "email": nil}).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
		}
		log.Printf("🔥 Withdrawal failed for %s: %v", accountID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to withdraw"})
	}

	return c.JSON(fiber.Map{"message": "Withdrawal complete", "data": nil})
}
