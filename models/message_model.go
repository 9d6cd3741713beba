package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ChatID   uuid.UUID `gorm:"not null;index" json:"chat_id"`
	SenderID uuid.UUID `gorm:"not null" json:"sender_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	IsRead   bool      `gorm:"not null;default:false" json:"is_read"`
	IsSystem bool      `gorm:"not null;default:false" json:"is_system"`

	Sender Account `gorm:"foreignkey:SenderID" json:"sender,omitempty"`
	Chat   Chat    `gorm:"foreignkey:ChatID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
