package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database with shared cache keeps the schema visible
	// across the pooled connections gorm opens.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Trainer{},
		&models.Member{},
		&models.Schedule{},
		&models.Reservation{},
		&models.Chat{},
		&models.Message{},
		&models.Profile{},
		&models.ExerciseRecord{},
		&models.MealRecord{},
		&models.Notification{},
	))
	return db
}

var accountSeq int

func createAccount(t *testing.T, db *gorm.DB, name, role string) models.Account {
	t.Helper()

	accountSeq++
	email := fmt.Sprintf("%s%d@test.local", role, accountSeq)
	account := models.Account{
		Email:    &email,
		Password: "hashed-password",
		Name:     name,
		Role:     role,
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func createTrainer(t *testing.T, db *gorm.DB, name string) models.Trainer {
	t.Helper()

	account := createAccount(t, db, name, models.RoleTrainer)
	trainer := models.Trainer{AccountID: account.ID}
	require.NoError(t, db.Create(&trainer).Error)
	return trainer
}

func createMember(t *testing.T, db *gorm.DB, name string, trainerID *uuid.UUID, ptCount int) models.Member {
	t.Helper()

	account := createAccount(t, db, name, models.RoleMember)
	member := models.Member{
		AccountID: account.ID,
		TrainerID: trainerID,
		PtCount:   ptCount,
	}
	require.NoError(t, db.Create(&member).Error)

	// A zero count would be dropped from the INSERT in favor of the column
	// default, so force the requested value after the fact.
	require.NoError(t, db.Model(&member).UpdateColumn("pt_count", ptCount).Error)
	member.PtCount = ptCount
	return member
}

func mustParseUUID(t *testing.T, raw string) uuid.UUID {
	t.Helper()

	id, err := uuid.Parse(raw)
	require.NoError(t, err)
	return id
}

func memberPtCount(t *testing.T, db *gorm.DB, memberID uuid.UUID) int {
	t.Helper()

	var member models.Member
	require.NoError(t, db.First(&member, "id = ?", memberID).Error)
	return member.PtCount
}
