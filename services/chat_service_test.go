package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type chatFixture struct {
	trainer models.Trainer
	member  models.Member
	chat    models.Chat
}

func newChatFixture(t *testing.T, db *gorm.DB) chatFixture {
	t.Helper()

	trainer := createTrainer(t, db, "Trainer")
	member := createMember(t, db, "Member", &trainer.ID, 30)
	chat := models.Chat{MemberID: member.ID, TrainerID: trainer.ID}
	require.NoError(t, db.Create(&chat).Error)
	return chatFixture{trainer: trainer, member: member, chat: chat}
}

// seedMessage inserts with an explicit timestamp so ordering is deterministic.
func seedMessage(t *testing.T, db *gorm.DB, chatID, senderID uuid.UUID, content string, at time.Time) models.Message {
	t.Helper()

	message := models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	message.CreatedAt = at
	require.NoError(t, db.Create(&message).Error)
	return message
}

func TestSaveMessage(t *testing.T) {
	db := newTestDB(t)
	fx := newChatFixture(t, db)

	message, err := SaveMessage(db, fx.chat.ID, fx.member.AccountID, "hello", false)
	require.NoError(t, err)
	assert.Equal(t, "hello", message.Content)
	assert.Equal(t, fx.member.AccountID, message.SenderID)
	assert.False(t, message.IsRead)

	_, err = SaveMessage(db, mustParseUUID(t, "55555555-5555-5555-5555-555555555555"),
		fx.member.AccountID, "hello", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChatMessagesPaging(t *testing.T) {
	db := newTestDB(t)
	fx := newChatFixture(t, db)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	var all []models.Message
	for i := 0; i < 5; i++ {
		msg := seedMessage(t, db, fx.chat.ID, fx.member.AccountID,
			fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Minute))
		all = append(all, msg)
	}

	// First page: newest two messages.
	page, err := ChatMessages(db, fx.chat.ID, fx.trainer.AccountID, models.RoleTrainer, nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "message 4", page[0].Content)
	assert.Equal(t, "message 3", page[1].Content)

	// Second page continues strictly before the cursor.
	cursor := page[1].ID
	page, err = ChatMessages(db, fx.chat.ID, fx.trainer.AccountID, models.RoleTrainer, &cursor, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "message 2", page[0].Content)
	assert.Equal(t, "message 1", page[1].Content)

	// A cursor from another room is rejected.
	foreign := all[0].ID
	otherChat := models.Chat{MemberID: fx.member.ID, TrainerID: fx.trainer.ID}
	require.NoError(t, db.Create(&otherChat).Error)
	_, err = ChatMessages(db, otherChat.ID, fx.trainer.AccountID, models.RoleTrainer, &foreign, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChatMessagesAuthorization(t *testing.T) {
	db := newTestDB(t)
	fx := newChatFixture(t, db)
	outsider := createMember(t, db, "Outsider", &fx.trainer.ID, 30)
	otherTrainer := createTrainer(t, db, "Other trainer")

	_, err := ChatMessages(db, fx.chat.ID, outsider.AccountID, models.RoleMember, nil, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = ChatMessages(db, fx.chat.ID, otherTrainer.AccountID, models.RoleTrainer, nil, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = ChatMessages(db, fx.chat.ID, fx.member.AccountID, "admin", nil, 10)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = ChatMessages(db, fx.chat.ID, fx.member.AccountID, models.RoleMember, nil, 10)
	assert.NoError(t, err)
}

func TestChatPartner(t *testing.T) {
	db := newTestDB(t)
	fx := newChatFixture(t, db)

	partner, err := ChatPartner(db, fx.chat.ID, fx.member.AccountID)
	require.NoError(t, err)
	assert.Equal(t, fx.trainer.AccountID, partner)

	partner, err = ChatPartner(db, fx.chat.ID, fx.trainer.AccountID)
	require.NoError(t, err)
	assert.Equal(t, fx.member.AccountID, partner)
}

func TestMarkMessagesRead(t *testing.T) {
	db := newTestDB(t)
	fx := newChatFixture(t, db)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	first := seedMessage(t, db, fx.chat.ID, fx.member.AccountID, "one", base)
	second := seedMessage(t, db, fx.chat.ID, fx.member.AccountID, "two", base.Add(time.Minute))
	third := seedMessage(t, db, fx.chat.ID, fx.member.AccountID, "three", base.Add(2*time.Minute))
	ownMessage := seedMessage(t, db, fx.chat.ID, fx.trainer.AccountID, "mine", base.Add(3*time.Minute))

	affected, err := MarkMessagesRead(db, fx.chat.ID, fx.trainer.AccountID, second.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	// Fresh structs per lookup: a populated primary key would otherwise be
	// folded into the next query's conditions.
	var reloadedFirst models.Message
	require.NoError(t, db.First(&reloadedFirst, "id = ?", first.ID).Error)
	assert.True(t, reloadedFirst.IsRead)

	var reloadedThird models.Message
	require.NoError(t, db.First(&reloadedThird, "id = ?", third.ID).Error)
	assert.False(t, reloadedThird.IsRead)

	// The reader's own messages never flip.
	var reloadedOwn models.Message
	require.NoError(t, db.First(&reloadedOwn, "id = ?", ownMessage.ID).Error)
	assert.False(t, reloadedOwn.IsRead)

	// Marking again is a no-op.
	affected, err = MarkMessagesRead(db, fx.chat.ID, fx.trainer.AccountID, second.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestTrainerChatRooms(t *testing.T) {
	db := newTestDB(t)
	trainer := createTrainer(t, db, "Trainer")
	memberA := createMember(t, db, "Alice", &trainer.ID, 30)
	memberB := createMember(t, db, "Bob", &trainer.ID, 30)

	chatA := models.Chat{MemberID: memberA.ID, TrainerID: trainer.ID}
	chatB := models.Chat{MemberID: memberB.ID, TrainerID: trainer.ID}
	require.NoError(t, db.Create(&chatA).Error)
	require.NoError(t, db.Create(&chatB).Error)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, db, chatA.ID, memberA.AccountID, "hi coach", base)
	latest := seedMessage(t, db, chatA.ID, memberA.AccountID, "are you there?", base.Add(time.Minute))

	rooms, err := TrainerChatRooms(db, trainer.AccountID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	byMember := map[uuid.UUID]ChatRoomInfo{}
	for _, room := range rooms {
		byMember[room.MemberID] = room
	}

	roomA := byMember[memberA.ID]
	assert.Equal(t, "Alice", roomA.MemberName)
	require.NotNil(t, roomA.LastMessage)
	assert.Equal(t, latest.Content, *roomA.LastMessage)
	assert.EqualValues(t, 2, roomA.UnreadCount)

	roomB := byMember[memberB.ID]
	assert.Equal(t, "Bob", roomB.MemberName)
	assert.Nil(t, roomB.LastMessage)
	assert.Zero(t, roomB.UnreadCount)
}

func TestTrainerChatRoomsUnknownTrainer(t *testing.T) {
	db := newTestDB(t)

	_, err := TrainerChatRooms(db, mustParseUUID(t, "66666666-6666-6666-6666-666666666666"))
	assert.ErrorIs(t, err, ErrNotFound)
}
