package notifications

import (
	"log"

	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/hyeonjun-dev/fitcenter/websocket"
	"github.com/google/uuid"
)

// Notify persists a notification row and pushes it to the recipient's open
// socket, if any. Failures are logged, never surfaced: notifications must not
// fail the operation that triggered them.
func Notify(accountID uuid.UUID, notificationType, content string) {
	notification := models.Notification{
		AccountID: accountID,
		Type:      notificationType,
		Content:   content,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to save %s notification for %s: %v", notificationType, accountID, err)
		return
	}

	websocket.Send(accountID, "notification", notification)
}

// NotifyReservationCancelled fans a cancellation event out to both parties of
// an existing reservation.
func NotifyReservationCancelled(reservationID uuid.UUID) {
	var reservation models.Reservation
	err := database.DB.
		Preload("Member").
		Preload("Schedule.Trainer").
		First(&reservation, "id = ?", reservationID).Error
	if err != nil {
		log.Printf("Failed to load reservation %s for cancellation notice: %v", reservationID, err)
		return
	}

	content := "PT session on " + reservation.Schedule.Date + " " +
		reservation.Schedule.StartTime[:5] + " was cancelled"
	Notify(reservation.Member.AccountID, models.NotificationReservation, content)
	Notify(reservation.Schedule.Trainer.AccountID, models.NotificationReservation, content)
}

// NotifyReservationChange fans a reservation event out to the member and the
// trainer on both ends of the booking, plus a confirmation email to the member.
func NotifyReservationChange(memberAccountID uuid.UUID, content string) {
	Notify(memberAccountID, models.NotificationReservation, content)

	var member models.Member
	err := database.DB.Preload("Account").Preload("Trainer").
		Where("account_id = ?", memberAccountID).
		First(&member).Error
	if err != nil {
		return
	}

	if member.Account.Email != nil {
		SendEmail(member.Account.Name, *member.Account.Email, "Reservation update",
			"<p>"+content+"</p>")
	}

	if member.Trainer != nil {
		Notify(member.Trainer.AccountID, models.NotificationReservation, content)
	}
}
