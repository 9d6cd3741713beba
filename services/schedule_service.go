package services

import (
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FullTimeSlots is the gym's fixed daily booking grid, on-the-hour sessions
// from 09:00 to 20:00 with the 12:00 lunch hour excluded. Changing business
// hours means changing this list and redeploying.
var FullTimeSlots = []string{
	"09:00:00",
	"10:00:00",
	"11:00:00",
	"13:00:00",
	"14:00:00",
	"15:00:00",
	"16:00:00",
	"17:00:00",
	"18:00:00",
	"19:00:00",
	"20:00:00",
}

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// AvailableTimeSlots reports, for every fixed slot of the given trainer and
// date, whether a confirmed reservation already occupies it. Read-only.
func AvailableTimeSlots(db *gorm.DB, trainerID uuid.UUID, date string) ([]TimeSlot, error) {
	var reservedTimes []string
	err := db.Model(&models.Reservation{}).
		Joins("JOIN schedules ON schedules.id = reservations.schedule_id").
		Where("reservations.status = ? AND schedules.trainer_id = ? AND schedules.date = ?",
			models.ReservationConfirmed, trainerID, date).
		Pluck("schedules.start_time", &reservedTimes).Error
	if err != nil {
		return nil, err
	}

	reserved := make(map[string]bool, len(reservedTimes))
	for _, t := range reservedTimes {
		reserved[t] = true
	}

	slots := make([]TimeSlot, 0, len(FullTimeSlots))
	for _, t := range FullTimeSlots {
		slots = append(slots, TimeSlot{
			Time:      t[:5],
			Available: !reserved[t],
		})
	}
	return slots, nil
}

// AvailableTimeSlotsForAccount resolves the caller to a trainer id first:
// trainers see their own schedule, members the schedule of their assigned
// trainer.
func AvailableTimeSlotsForAccount(db *gorm.DB, accountID uuid.UUID, role, date string) ([]TimeSlot, error) {
	var trainerID uuid.UUID

	switch role {
	case models.RoleTrainer:
		var trainer models.Trainer
		if err := db.Where("account_id = ?", accountID).First(&trainer).Error; err != nil {
			return nil, ErrNotFound
		}
		trainerID = trainer.ID
	case models.RoleMember:
		var member models.Member
		if err := db.Where("account_id = ? AND is_deleted = ?", accountID, false).First(&member).Error; err != nil {
			return nil, ErrNotFound
		}
		if member.TrainerID == nil {
			return nil, ErrNotFound
		}
		trainerID = *member.TrainerID
	default:
		return nil, ErrInvalidRole
	}

	return AvailableTimeSlots(db, trainerID, date)
}
