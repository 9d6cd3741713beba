package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
)

type Account struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    *string   `gorm:"size:100;unique" json:"email"`
	Password string    `gorm:"size:100;not null" json:"-"`
	Name     string    `gorm:"size:50;not null" json:"name"`
	Role     string    `gorm:"size:20;not null" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
