package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExerciseRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AccountID uuid.UUID `gorm:"not null;index" json:"-"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	Memo      string    `gorm:"type:text" json:"memo"`
	PhotoURL  *string   `gorm:"type:text" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (e *ExerciseRecord) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
