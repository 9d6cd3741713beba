package services

import (
	"errors"
	"time"

	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	memberCancelCutoff = 24 * time.Hour

	// How often a booking transaction is retried when two requests race to
	// materialize the same schedule slot.
	slotCreateRetries = 3
)

var errSlotRace = errors.New("schedule slot created concurrently")

// CreateReservation books the member identified by accountID into the slot of
// their assigned trainer at (date, hhmm). The slot row is created lazily under
// the (trainer, date, start_time) unique index; a losing insert rolls the
// transaction back and the whole booking is retried so the re-fetch sees the
// winner's row. Credit debit and reservation insert commit atomically.
func CreateReservation(db *gorm.DB, accountID uuid.UUID, date, hhmm string) error {
	startTime := hhmm + ":00"

	var err error
	for attempt := 0; attempt < slotCreateRetries; attempt++ {
		err = db.Transaction(func(tx *gorm.DB) error {
			var member models.Member
			if err := tx.Where("account_id = ? AND is_deleted = ?", accountID, false).
				First(&member).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if member.TrainerID == nil {
				return ErrNoTrainerAssigned
			}
			if member.PtCount <= 0 {
				return ErrNoCredits
			}

			schedule, err := findOrCreateSchedule(tx, *member.TrainerID, date, startTime)
			if err != nil {
				return err
			}

			var active int64
			if err := tx.Model(&models.Reservation{}).
				Where("member_id = ? AND schedule_id = ? AND status = ?",
					member.ID, schedule.ID, models.ReservationConfirmed).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return ErrDuplicateReservation
			}

			reservation := models.Reservation{
				MemberID:   member.ID,
				ScheduleID: schedule.ID,
				Status:     models.ReservationConfirmed,
			}
			if err := tx.Create(&reservation).Error; err != nil {
				// The partial unique index on (member, slot, confirmed)
				// catches the race the count above cannot see.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateReservation
				}
				return err
			}

			// Guarded decrement: the predicate keeps a concurrent booking
			// from spending the last credit twice.
			debit := tx.Model(&models.Member{}).
				Where("id = ? AND pt_count > 0", member.ID).
				UpdateColumn("pt_count", gorm.Expr("pt_count - 1"))
			if debit.Error != nil {
				return debit.Error
			}
			if debit.RowsAffected == 0 {
				return ErrNoCredits
			}
			return nil
		})
		if !errors.Is(err, errSlotRace) {
			return err
		}
	}
	return err
}

func findOrCreateSchedule(tx *gorm.DB, trainerID uuid.UUID, date, startTime string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := tx.Where("trainer_id = ? AND date = ? AND start_time = ?", trainerID, date, startTime).
		First(&schedule).Error
	if err == nil {
		return &schedule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	schedule = models.Schedule{TrainerID: trainerID, Date: date, StartTime: startTime}
	if err := tx.Create(&schedule).Error; err != nil {
		// Unique index violation: another request created the slot first.
		// The surrounding transaction must be restarted to see it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errSlotRace
		}
		return nil, err
	}
	return &schedule, nil
}

// CancelReservation cancels a confirmed reservation on behalf of its member or
// the trainer owning the slot. Members must cancel more than 24 hours before
// the session starts and get one credit back; trainers may cancel any time
// before the session ends and no credit is refunded.
func CancelReservation(db *gorm.DB, reservationID, accountID uuid.UUID, role string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var callerMemberID, callerTrainerID uuid.UUID
		switch role {
		case models.RoleMember:
			var member models.Member
			if err := tx.Where("account_id = ? AND is_deleted = ?", accountID, false).
				First(&member).Error; err != nil {
				return ErrNotFound
			}
			callerMemberID = member.ID
		case models.RoleTrainer:
			var trainer models.Trainer
			if err := tx.Where("account_id = ?", accountID).First(&trainer).Error; err != nil {
				return ErrNotFound
			}
			callerTrainerID = trainer.ID
		default:
			return ErrInvalidRole
		}

		var reservation models.Reservation
		if err := tx.Preload("Schedule").First(&reservation, "id = ?", reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		ownsReservation := (role == models.RoleMember && reservation.MemberID == callerMemberID) ||
			(role == models.RoleTrainer && reservation.Schedule.TrainerID == callerTrainerID)
		if !ownsReservation {
			return ErrForbidden
		}

		if reservation.Status != models.ReservationConfirmed {
			return ErrAlreadyCancelled
		}

		start, end, err := sessionWindow(reservation.Schedule.Date, reservation.Schedule.StartTime)
		if err != nil {
			return err
		}

		if role == models.RoleMember && !now.Before(start.Add(-memberCancelCutoff)) {
			return ErrCancelWindowPassed
		}
		if role == models.RoleTrainer && !now.Before(end) {
			return ErrSessionFinished
		}

		// Guarded flip: the status predicate keeps a concurrent cancellation
		// from refunding the same reservation twice.
		flip := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", reservation.ID, models.ReservationConfirmed).
			Update("status", models.ReservationCancelled)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}

		if role == models.RoleMember {
			refund := tx.Model(&models.Member{}).
				Where("id = ?", reservation.MemberID).
				UpdateColumn("pt_count", gorm.Expr("pt_count + 1"))
			if refund.Error != nil {
				return refund.Error
			}
		}
		return nil
	})
}

func sessionWindow(date, startTime string) (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01-02 15:04:05", date+" "+startTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(models.SessionMinutes * time.Minute), nil
}
