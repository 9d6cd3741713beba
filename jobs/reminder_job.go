package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/hyeonjun-dev/fitcenter/notifications"
)

// SendSessionReminders notifies both parties of confirmed PT sessions that
// start in roughly an hour. Runs every 5 minutes, so the 60-65 minute window
// catches each session exactly once.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute).Format("2006-01-02 15:04:05")
	upperBound := now.Add(65 * time.Minute).Format("2006-01-02 15:04:05")

	var upcoming []models.Reservation
	err := database.DB.
		Preload("Member").
		Preload("Schedule.Trainer").
		Joins("JOIN schedules ON schedules.id = reservations.schedule_id").
		Where("reservations.status = ?", models.ReservationConfirmed).
		Where("(schedules.date || ' ' || schedules.start_time) > ? AND (schedules.date || ' ' || schedules.start_time) <= ?",
			lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error loading upcoming sessions for reminders: %v", err)
		return
	}

	if len(upcoming) == 0 {
		return
	}

	for _, reservation := range upcoming {
		content := fmt.Sprintf("PT session starts at %s today", reservation.Schedule.StartTime[:5])
		notifications.Notify(reservation.Member.AccountID, models.NotificationReservation, content)
		notifications.Notify(reservation.Schedule.Trainer.AccountID, models.NotificationReservation, content)
	}

	log.Printf("Sent reminders for %d upcoming session(s).", len(upcoming))
}
