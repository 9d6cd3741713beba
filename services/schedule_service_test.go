package services

import (
	"testing"

	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableTimeSlotsEmptyDay(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")

	slots, err := AvailableTimeSlots(db, trainer.ID, "2026-09-01")
	require.NoError(t, err)

	require.Len(t, slots, len(FullTimeSlots))
	for _, slot := range slots {
		assert.True(t, slot.Available, "slot %s should be free on an empty day", slot.Time)
	}
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "20:00", slots[len(slots)-1].Time)

	// The lunch hour is not part of the grid at all.
	for _, slot := range slots {
		assert.NotEqual(t, "12:00", slot.Time)
	}
}

func TestAvailableTimeSlotsMarksConfirmedReservations(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 30)

	schedule := models.Schedule{TrainerID: trainer.ID, Date: "2026-09-01", StartTime: "14:00:00"}
	require.NoError(t, db.Create(&schedule).Error)
	require.NoError(t, db.Create(&models.Reservation{
		MemberID:   member.ID,
		ScheduleID: schedule.ID,
		Status:     models.ReservationConfirmed,
	}).Error)

	slots, err := AvailableTimeSlots(db, trainer.ID, "2026-09-01")
	require.NoError(t, err)

	for _, slot := range slots {
		if slot.Time == "14:00" {
			assert.False(t, slot.Available)
		} else {
			assert.True(t, slot.Available, "slot %s should stay free", slot.Time)
		}
	}
}

func TestAvailableTimeSlotsCancelledReservationFreesSlot(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 30)

	schedule := models.Schedule{TrainerID: trainer.ID, Date: "2026-09-01", StartTime: "09:00:00"}
	require.NoError(t, db.Create(&schedule).Error)
	require.NoError(t, db.Create(&models.Reservation{
		MemberID:   member.ID,
		ScheduleID: schedule.ID,
		Status:     models.ReservationCancelled,
	}).Error)

	slots, err := AvailableTimeSlots(db, trainer.ID, "2026-09-01")
	require.NoError(t, err)
	assert.True(t, slots[0].Available)
}

func TestAvailableTimeSlotsScopedToTrainerAndDate(t *testing.T) {
	db := newTestDB(t)
	trainerA := createTrainer(t, db, "A")
	trainerB := createTrainer(t, db, "B")
	member := createMember(t, db, "Member", &trainerA.ID, 30)

	schedule := models.Schedule{TrainerID: trainerA.ID, Date: "2026-09-01", StartTime: "10:00:00"}
	require.NoError(t, db.Create(&schedule).Error)
	require.NoError(t, db.Create(&models.Reservation{
		MemberID:   member.ID,
		ScheduleID: schedule.ID,
		Status:     models.ReservationConfirmed,
	}).Error)

	otherTrainer, err := AvailableTimeSlots(db, trainerB.ID, "2026-09-01")
	require.NoError(t, err)
	otherDate, err := AvailableTimeSlots(db, trainerA.ID, "2026-09-02")
	require.NoError(t, err)

	for _, slot := range otherTrainer {
		assert.True(t, slot.Available)
	}
	for _, slot := range otherDate {
		assert.True(t, slot.Available)
	}
}

func TestAvailableTimeSlotsForAccount(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 30)
	unassigned := createMember(t, db, "Unassigned", nil, 30)

	tests := []struct {
		name      string
		accountID func() (accountID string)
		role      string
		wantErr   error
	}{
		{
			name:      "trainer sees own schedule",
			accountID: func() string { return trainer.AccountID.String() },
			role:      models.RoleTrainer,
		},
		{
			name:      "member sees assigned trainer schedule",
			accountID: func() string { return member.AccountID.String() },
			role:      models.RoleMember,
		},
		{
			name:      "member without trainer",
			accountID: func() string { return unassigned.AccountID.String() },
			role:      models.RoleMember,
			wantErr:   ErrNotFound,
		},
		{
			name:      "unknown account",
			accountID: func() string { return "11111111-1111-1111-1111-111111111111" },
			role:      models.RoleTrainer,
			wantErr:   ErrNotFound,
		},
		{
			name:      "unknown role",
			accountID: func() string { return trainer.AccountID.String() },
			role:      "admin",
			wantErr:   ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountID := mustParseUUID(t, tt.accountID())

			slots, err := AvailableTimeSlotsForAccount(db, accountID, tt.role, "2026-09-01")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, slots, len(FullTimeSlots))
		})
	}
}
