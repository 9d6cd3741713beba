package services

import (
	"errors"
	"time"

	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRoomInfo struct {
	ChatID        uuid.UUID  `json:"chat_id"`
	MemberID      uuid.UUID  `json:"member_id"`
	MemberName    string     `json:"member_name"`
	LastMessage   *string    `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	UnreadCount   int64      `json:"unread_count"`
}

// TrainerChatRooms lists a trainer's rooms, most recently active first, each
// annotated with the latest message and how many incoming messages are unread.
func TrainerChatRooms(db *gorm.DB, accountID uuid.UUID) ([]ChatRoomInfo, error) {
	var trainer models.Trainer
	if err := db.Where("account_id = ?", accountID).First(&trainer).Error; err != nil {
		return nil, ErrNotFound
	}

	var chats []models.Chat
	err := db.Preload("Member.Account").
		Where("trainer_id = ?", trainer.ID).
		Order("updated_at desc").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}

	rooms := make([]ChatRoomInfo, 0, len(chats))
	for _, chat := range chats {
		room := ChatRoomInfo{
			ChatID:     chat.ID,
			MemberID:   chat.MemberID,
			MemberName: chat.Member.Account.Name,
		}

		var last models.Message
		err := db.Where("chat_id = ?", chat.ID).
			Order("created_at desc").
			First(&last).Error
		if err == nil {
			room.LastMessage = &last.Content
			room.LastMessageAt = &last.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		err = db.Model(&models.Message{}).
			Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chat.ID, accountID, false).
			Count(&room.UnreadCount).Error
		if err != nil {
			return nil, err
		}

		rooms = append(rooms, room)
	}
	return rooms, nil
}

// MemberChatRoom returns the member's single room with their current trainer.
func MemberChatRoom(db *gorm.DB, accountID uuid.UUID) (*models.Chat, error) {
	var member models.Member
	if err := db.Where("account_id = ? AND is_deleted = ?", accountID, false).
		First(&member).Error; err != nil {
		return nil, ErrNotFound
	}
	if member.TrainerID == nil {
		return nil, ErrNotFound
	}

	var chat models.Chat
	err := db.Preload("Trainer.Account").
		Where("member_id = ? AND trainer_id = ?", member.ID, *member.TrainerID).
		First(&chat).Error
	if err != nil {
		return nil, ErrNotFound
	}
	return &chat, nil
}

// ChatMessages pages a room's history backwards from the cursor message
// (newest first). Callers must be the room's member or trainer.
func ChatMessages(db *gorm.DB, chatID, accountID uuid.UUID, role string, cursor *uuid.UUID, limit int) ([]models.Message, error) {
	if err := authorizeChatAccess(db, chatID, accountID, role); err != nil {
		return nil, err
	}

	query := db.Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at desc").
		Limit(limit)

	if cursor != nil {
		var cursorMsg models.Message
		if err := db.First(&cursorMsg, "id = ? AND chat_id = ?", *cursor, chatID).Error; err != nil {
			return nil, ErrNotFound
		}
		query = query.Where("created_at < ?", cursorMsg.CreatedAt)
	}

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func authorizeChatAccess(db *gorm.DB, chatID, accountID uuid.UUID, role string) error {
	var chat models.Chat
	if err := db.First(&chat, "id = ?", chatID).Error; err != nil {
		return ErrNotFound
	}

	switch role {
	case models.RoleMember:
		var member models.Member
		if err := db.Where("account_id = ?", accountID).First(&member).Error; err != nil {
			return ErrNotFound
		}
		if chat.MemberID != member.ID {
			return ErrForbidden
		}
	case models.RoleTrainer:
		var trainer models.Trainer
		if err := db.Where("account_id = ?", accountID).First(&trainer).Error; err != nil {
			return ErrNotFound
		}
		if chat.TrainerID != trainer.ID {
			return ErrForbidden
		}
	default:
		return ErrInvalidRole
	}
	return nil
}

// SaveMessage appends a message to a room and bumps the room's activity time.
func SaveMessage(db *gorm.DB, chatID, senderAccountID uuid.UUID, content string, isSystem bool) (*models.Message, error) {
	var chat models.Chat
	if err := db.First(&chat, "id = ?", chatID).Error; err != nil {
		return nil, ErrNotFound
	}

	message := models.Message{
		ChatID:   chatID,
		SenderID: senderAccountID,
		Content:  content,
		IsSystem: isSystem,
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&chat).Update("updated_at", time.Now()).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ChatPartner returns the account id on the other side of a room.
func ChatPartner(db *gorm.DB, chatID, accountID uuid.UUID) (uuid.UUID, error) {
	var chat models.Chat
	err := db.Preload("Member").Preload("Trainer").First(&chat, "id = ?", chatID).Error
	if err != nil {
		return uuid.Nil, ErrNotFound
	}

	if chat.Member.AccountID == accountID {
		return chat.Trainer.AccountID, nil
	}
	return chat.Member.AccountID, nil
}

// MarkMessagesRead marks the other party's messages up to and including the
// cursor message as read, returning how many rows changed.
func MarkMessagesRead(db *gorm.DB, chatID, readerAccountID, lastReadMessageID uuid.UUID) (int64, error) {
	var cursorMsg models.Message
	if err := db.First(&cursorMsg, "id = ? AND chat_id = ?", lastReadMessageID, chatID).Error; err != nil {
		return 0, ErrNotFound
	}

	result := db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND created_at <= ? AND is_read = ?",
			chatID, readerAccountID, cursorMsg.CreatedAt, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
