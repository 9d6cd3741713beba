package services

import (
	"time"

	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationInfo struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	TrainerName   string    `json:"trainer_name,omitempty"`
	MemberName    string    `json:"member_name,omitempty"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Duration      int       `json:"duration"`
	IsInProgress  bool      `json:"is_in_progress"`
	IsFinished    bool      `json:"is_finished"`
}

type MyReservations struct {
	Today    []ReservationInfo `json:"today"`
	Upcoming []ReservationInfo `json:"upcoming"`
}

// GetMyReservations lists a member's confirmed reservations bucketed into
// today's and upcoming sessions, ascending by date then time. Past-dated
// reservations land in neither bucket.
func GetMyReservations(db *gorm.DB, accountID uuid.UUID, now time.Time) (*MyReservations, error) {
	var member models.Member
	if err := db.Where("account_id = ? AND is_deleted = ?", accountID, false).
		First(&member).Error; err != nil {
		return nil, ErrNotFound
	}

	var reservations []models.Reservation
	err := db.
		Preload("Schedule.Trainer.Account").
		Joins("JOIN schedules ON schedules.id = reservations.schedule_id").
		Where("reservations.member_id = ? AND reservations.status = ?",
			member.ID, models.ReservationConfirmed).
		Order("schedules.date asc, schedules.start_time asc").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	result := &MyReservations{
		Today:    []ReservationInfo{},
		Upcoming: []ReservationInfo{},
	}

	for _, res := range reservations {
		inProgress, finished, err := sessionState(res.Schedule.Date, res.Schedule.StartTime, now)
		if err != nil {
			return nil, err
		}

		item := ReservationInfo{
			ReservationID: res.ID,
			TrainerName:   res.Schedule.Trainer.Account.Name,
			Date:          res.Schedule.Date,
			Time:          res.Schedule.StartTime[:5],
			Duration:      models.SessionMinutes,
			IsInProgress:  inProgress,
			IsFinished:    finished,
		}

		switch {
		case res.Schedule.Date == today:
			result.Today = append(result.Today, item)
		case res.Schedule.Date > today:
			result.Upcoming = append(result.Upcoming, item)
		}
	}
	return result, nil
}

// GetTrainerReservations lists a trainer's confirmed reservations for one
// date, ascending by time, with the same in-progress/finished annotations.
func GetTrainerReservations(db *gorm.DB, accountID uuid.UUID, date string, now time.Time) ([]ReservationInfo, error) {
	var trainer models.Trainer
	if err := db.Where("account_id = ?", accountID).First(&trainer).Error; err != nil {
		return nil, ErrNotFound
	}

	var reservations []models.Reservation
	err := db.
		Preload("Schedule").
		Preload("Member.Account").
		Joins("JOIN schedules ON schedules.id = reservations.schedule_id").
		Where("reservations.status = ? AND schedules.trainer_id = ? AND schedules.date = ?",
			models.ReservationConfirmed, trainer.ID, date).
		Order("schedules.start_time asc").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	items := make([]ReservationInfo, 0, len(reservations))
	for _, res := range reservations {
		inProgress, finished, err := sessionState(res.Schedule.Date, res.Schedule.StartTime, now)
		if err != nil {
			return nil, err
		}

		items = append(items, ReservationInfo{
			ReservationID: res.ID,
			MemberName:    res.Member.Account.Name,
			Date:          res.Schedule.Date,
			Time:          res.Schedule.StartTime[:5],
			Duration:      models.SessionMinutes,
			IsInProgress:  inProgress,
			IsFinished:    finished,
		})
	}
	return items, nil
}

func sessionState(date, startTime string, now time.Time) (inProgress, finished bool, err error) {
	start, end, err := sessionWindow(date, startTime)
	if err != nil {
		return false, false, err
	}
	return !now.Before(start) && now.Before(end), !now.Before(end), nil
}
