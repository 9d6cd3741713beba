package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AccountID uuid.UUID `gorm:"not null;index" json:"-"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	Memo      string    `gorm:"type:text" json:"memo"`
	PhotoURL  *string   `gorm:"type:text" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (m *MealRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
