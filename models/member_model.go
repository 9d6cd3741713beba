package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InitialPtCount is the session-credit grant every member receives at signup.
const InitialPtCount = 30

type Member struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AccountID uuid.UUID  `gorm:"not null;uniqueIndex" json:"account_id"`
	TrainerID *uuid.UUID `json:"trainer_id"`
	PtCount   int        `gorm:"not null;default:30" json:"pt_count"`
	IsDeleted bool       `gorm:"not null;default:false" json:"-"`

	Account Account  `gorm:"foreignkey:AccountID" json:"account,omitempty"`
	Trainer *Trainer `gorm:"foreignkey:TrainerID" json:"trainer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
