package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule is one bookable slot of a trainer's day. Rows are created lazily
// the first time a reservation targets the (trainer, date, start time) triple;
// the composite unique index keeps concurrent bookings from materializing the
// same slot twice.
type Schedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TrainerID uuid.UUID `gorm:"not null;uniqueIndex:idx_schedule_slot" json:"-"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_schedule_slot" json:"date"`
	StartTime string    `gorm:"size:8;not null;uniqueIndex:idx_schedule_slot" json:"start_time"`

	Trainer Trainer `gorm:"foreignkey:TrainerID" json:"trainer,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
