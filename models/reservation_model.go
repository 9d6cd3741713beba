package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// SessionMinutes is the fixed length of a PT session.
const SessionMinutes = 50

type Reservation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MemberID   uuid.UUID `gorm:"not null;uniqueIndex:idx_active_reservation,where:status = 'confirmed'" json:"member_id"`
	ScheduleID uuid.UUID `gorm:"not null;uniqueIndex:idx_active_reservation,where:status = 'confirmed'" json:"schedule_id"`
	Status     string    `gorm:"size:20;not null;default:'confirmed'" json:"status"`

	Member   Member   `gorm:"foreignkey:MemberID" json:"member,omitempty"`
	Schedule Schedule `gorm:"foreignkey:ScheduleID" json:"schedule,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
