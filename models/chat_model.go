package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is the single room between a member and their trainer, created when
// the member signs up.
type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MemberID  uuid.UUID `gorm:"not null" json:"member_id"`
	TrainerID uuid.UUID `gorm:"not null" json:"trainer_id"`

	Member  Member  `gorm:"foreignkey:MemberID" json:"member,omitempty"`
	Trainer Trainer `gorm:"foreignkey:TrainerID" json:"trainer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
