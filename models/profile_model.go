package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MemberID uuid.UUID `gorm:"not null;uniqueIndex" json:"member_id"`
	Age      *int      `json:"age"`
	Gender   *string   `gorm:"size:10" json:"gender"`
	Height   *float64  `json:"height"`
	Weight   *float64  `json:"weight"`
	Memo     *string   `gorm:"type:text" json:"memo"`
	PhotoURL *string   `gorm:"type:text" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
