package services

import (
	"testing"
	"time"

	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func confirmedReservation(t *testing.T, db *gorm.DB, memberID, trainerID string, date, startTime string) models.Reservation {
	t.Helper()

	schedule := models.Schedule{
		TrainerID: mustParseUUID(t, trainerID),
		Date:      date,
		StartTime: startTime,
	}
	require.NoError(t, db.Create(&schedule).Error)

	reservation := models.Reservation{
		MemberID:   mustParseUUID(t, memberID),
		ScheduleID: schedule.ID,
		Status:     models.ReservationConfirmed,
	}
	require.NoError(t, db.Create(&reservation).Error)
	return reservation
}

func TestCreateReservation(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 30)

	err := CreateReservation(db, member.AccountID, "2026-09-10", "14:00")
	require.NoError(t, err)

	var schedule models.Schedule
	require.NoError(t, db.Where("trainer_id = ? AND date = ? AND start_time = ?",
		trainer.ID, "2026-09-10", "14:00:00").First(&schedule).Error)

	var reservation models.Reservation
	require.NoError(t, db.Where("member_id = ? AND schedule_id = ?",
		member.ID, schedule.ID).First(&reservation).Error)
	assert.Equal(t, models.ReservationConfirmed, reservation.Status)

	assert.Equal(t, 29, memberPtCount(t, db, member.ID))
}

func TestCreateReservationReusesScheduleRow(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	memberA := createMember(t, db, "A", &trainer.ID, 30)
	memberB := createMember(t, db, "B", &trainer.ID, 30)

	require.NoError(t, CreateReservation(db, memberA.AccountID, "2026-09-10", "14:00"))
	require.NoError(t, CreateReservation(db, memberB.AccountID, "2026-09-10", "14:00"))

	var count int64
	require.NoError(t, db.Model(&models.Schedule{}).
		Where("trainer_id = ? AND date = ? AND start_time = ?", trainer.ID, "2026-09-10", "14:00:00").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateReservationErrors(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	assigned := createMember(t, db, "Assigned", &trainer.ID, 30)
	unassigned := createMember(t, db, "Unassigned", nil, 30)
	broke := createMember(t, db, "No credits", &trainer.ID, 0)
	withdrawn := createMember(t, db, "Withdrawn", &trainer.ID, 30)
	require.NoError(t, db.Model(&withdrawn).Update("is_deleted", true).Error)

	// The zero count must survive the column default on insert.
	require.Equal(t, 0, memberPtCount(t, db, broke.ID))

	tests := []struct {
		name    string
		member  models.Member
		wantErr error
	}{
		{"no trainer assigned", unassigned, ErrNoTrainerAssigned},
		{"zero credits", broke, ErrNoCredits},
		{"withdrawn member", withdrawn, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CreateReservation(db, tt.member.AccountID, "2026-09-10", "09:00")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("duplicate booking of the same slot", func(t *testing.T) {
		require.NoError(t, CreateReservation(db, assigned.AccountID, "2026-09-10", "10:00"))
		err := CreateReservation(db, assigned.AccountID, "2026-09-10", "10:00")
		assert.ErrorIs(t, err, ErrDuplicateReservation)

		// The failed attempt must not have spent a credit.
		assert.Equal(t, 29, memberPtCount(t, db, assigned.ID))
	})
}

func TestCreateReservationSpendsLastCredit(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Last credit", &trainer.ID, 1)

	require.NoError(t, CreateReservation(db, member.AccountID, "2026-09-10", "11:00"))
	assert.Equal(t, 0, memberPtCount(t, db, member.ID))

	err := CreateReservation(db, member.AccountID, "2026-09-11", "11:00")
	assert.ErrorIs(t, err, ErrNoCredits)
}

func TestActiveReservationUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 30)

	schedule := models.Schedule{TrainerID: trainer.ID, Date: "2026-09-10", StartTime: "14:00:00"}
	require.NoError(t, db.Create(&schedule).Error)

	require.NoError(t, db.Create(&models.Reservation{
		MemberID:   member.ID,
		ScheduleID: schedule.ID,
		Status:     models.ReservationConfirmed,
	}).Error)

	// A second confirmed row for the same (member, slot) is rejected by the
	// database even when the application-level count is bypassed.
	err := db.Create(&models.Reservation{
		MemberID:   member.ID,
		ScheduleID: schedule.ID,
		Status:     models.ReservationConfirmed,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Cancelled rows are history, not conflicts.
	require.NoError(t, db.Create(&models.Reservation{
		MemberID:   member.ID,
		ScheduleID: schedule.ID,
		Status:     models.ReservationCancelled,
	}).Error)
	require.NoError(t, db.Create(&models.Reservation{
		MemberID:   member.ID,
		ScheduleID: schedule.ID,
		Status:     models.ReservationCancelled,
	}).Error)
}

func TestScheduleSlotUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")

	slot := models.Schedule{TrainerID: trainer.ID, Date: "2026-09-10", StartTime: "14:00:00"}
	require.NoError(t, db.Create(&slot).Error)

	// A losing concurrent insert surfaces as a translated duplicate-key
	// error, which the booking transaction converts into a retry.
	duplicate := models.Schedule{TrainerID: trainer.ID, Date: "2026-09-10", StartTime: "14:00:00"}
	err := db.Create(&duplicate).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Other trainers and other times are unaffected.
	otherTrainer := createTrainer(t, db, "Other")
	require.NoError(t, db.Create(&models.Schedule{
		TrainerID: otherTrainer.ID, Date: "2026-09-10", StartTime: "14:00:00",
	}).Error)
	require.NoError(t, db.Create(&models.Schedule{
		TrainerID: trainer.ID, Date: "2026-09-10", StartTime: "15:00:00",
	}).Error)

	// The resolver reuses the winner's row instead of failing.
	found, err := findOrCreateSchedule(db, trainer.ID, "2026-09-10", "14:00:00")
	require.NoError(t, err)
	assert.Equal(t, slot.ID, found.ID)
}

func TestCancelReservationByMember(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 29)

	// Two days out is always beyond the 24 hour cutoff.
	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	reservation := confirmedReservation(t, db, member.ID.String(), trainer.ID.String(), date, "14:00:00")

	require.NoError(t, CancelReservation(db, reservation.ID, member.AccountID, models.RoleMember))

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, "id = ?", reservation.ID).Error)
	assert.Equal(t, models.ReservationCancelled, reloaded.Status)

	// One credit refunded.
	assert.Equal(t, 30, memberPtCount(t, db, member.ID))
}

func TestCancelReservationTwice(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 29)

	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	reservation := confirmedReservation(t, db, member.ID.String(), trainer.ID.String(), date, "14:00:00")

	require.NoError(t, CancelReservation(db, reservation.ID, member.AccountID, models.RoleMember))
	err := CancelReservation(db, reservation.ID, member.AccountID, models.RoleMember)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	// No double refund.
	assert.Equal(t, 30, memberPtCount(t, db, member.ID))

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, "id = ?", reservation.ID).Error)
	assert.Equal(t, models.ReservationCancelled, reloaded.Status)

	// The status flip itself is guarded, so a cancellation racing past the
	// in-transaction status check still cannot refund a second time.
	flip := db.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", reservation.ID, models.ReservationConfirmed).
		Update("status", models.ReservationCancelled)
	require.NoError(t, flip.Error)
	assert.Zero(t, flip.RowsAffected)
}

func TestCancelReservationInsideCutoff(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 29)

	start := time.Now().Add(2 * time.Hour)
	reservation := confirmedReservation(t, db, member.ID.String(), trainer.ID.String(),
		start.Format("2006-01-02"), start.Format("15:04:05"))

	err := CancelReservation(db, reservation.ID, member.AccountID, models.RoleMember)
	assert.ErrorIs(t, err, ErrCancelWindowPassed)

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, "id = ?", reservation.ID).Error)
	assert.Equal(t, models.ReservationConfirmed, reloaded.Status)
	assert.Equal(t, 29, memberPtCount(t, db, member.ID))
}

func TestCancelReservationByTrainer(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 29)

	t.Run("before session end", func(t *testing.T) {
		start := time.Now().Add(2 * time.Hour)
		reservation := confirmedReservation(t, db, member.ID.String(), trainer.ID.String(),
			start.Format("2006-01-02"), start.Format("15:04:05"))

		require.NoError(t, CancelReservation(db, reservation.ID, trainer.AccountID, models.RoleTrainer))

		// Trainer cancellations never refund the member.
		assert.Equal(t, 29, memberPtCount(t, db, member.ID))
	})

	t.Run("after session end", func(t *testing.T) {
		start := time.Now().Add(-2 * time.Hour)
		reservation := confirmedReservation(t, db, member.ID.String(), trainer.ID.String(),
			start.Format("2006-01-02"), start.Format("15:04:05"))

		err := CancelReservation(db, reservation.ID, trainer.AccountID, models.RoleTrainer)
		assert.ErrorIs(t, err, ErrSessionFinished)
	})
}

func TestCancelReservationOwnership(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	otherTrainer := createTrainer(t, db, "Other trainer")
	member := createMember(t, db, "Member", &trainer.ID, 29)
	otherMember := createMember(t, db, "Other member", &trainer.ID, 30)

	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	reservation := confirmedReservation(t, db, member.ID.String(), trainer.ID.String(), date, "14:00:00")

	err := CancelReservation(db, reservation.ID, otherMember.AccountID, models.RoleMember)
	assert.ErrorIs(t, err, ErrForbidden)

	err = CancelReservation(db, reservation.ID, otherTrainer.AccountID, models.RoleTrainer)
	assert.ErrorIs(t, err, ErrForbidden)

	err = CancelReservation(db, mustParseUUID(t, "22222222-2222-2222-2222-222222222222"),
		member.AccountID, models.RoleMember)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelReservationFreesSlotForRebooking(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 5)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	require.NoError(t, CreateReservation(db, member.AccountID, date, "14:00"))
	assert.Equal(t, 4, memberPtCount(t, db, member.ID))

	var reservation models.Reservation
	require.NoError(t, db.Where("member_id = ? AND status = ?", member.ID, models.ReservationConfirmed).
		First(&reservation).Error)

	require.NoError(t, CancelReservation(db, reservation.ID, member.AccountID, models.RoleMember))
	assert.Equal(t, 5, memberPtCount(t, db, member.ID))

	// The cancelled row no longer counts as a duplicate.
	require.NoError(t, CreateReservation(db, member.AccountID, date, "14:00"))
	assert.Equal(t, 4, memberPtCount(t, db, member.ID))
}
