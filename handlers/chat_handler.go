package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	config "github.com/hyeonjun-dev/fitcenter/configs"
	"github.com/hyeonjun-dev/fitcenter/database"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/hyeonjun-dev/fitcenter/notifications"
	ws "github.com/hyeonjun-dev/fitcenter/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/hyeonjun-dev/fitcenter/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// GetChatRooms lists the calling trainer's rooms with last-message and
// unread-count annotations.
func GetChatRooms(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	rooms, err := services.TrainerChatRooms(database.DB, accountID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load chat rooms"})
	}

	return c.JSON(fiber.Map{"message": "Chat rooms", "data": rooms})
}

// GetMyChatRoom returns the calling member's room with their trainer.
func GetMyChatRoom(c *fiber.Ctx) error {
	accountID, _ := currentAccount(c)

	chat, err := services.MemberChatRoom(database.DB, accountID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat room not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load chat room"})
	}

	return c.JSON(fiber.Map{"message": "My chat room", "data": chat})
}

func GetChatMessages(c *fiber.Ctx) error {
	accountID, role := currentAccount(c)

	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "30"))
	if limit < 1 || limit > 100 {
		limit = 30
	}

	var cursor *uuid.UUID
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cursor"})
		}
		cursor = &parsed
	}

	messages, err := services.ChatMessages(database.DB, chatID, accountID, role, cursor, limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat room not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this chat room"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load messages"})
	}

	return c.JSON(fiber.Map{"message": "Chat messages", "data": messages})
}

type chatAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type chatClientEvent struct {
	Type              string `json:"type"`
	ChatID            string `json:"chat_id"`
	Content           string `json:"content,omitempty"`
	LastReadMessageID string `json:"last_read_message_id,omitempty"`
}

// ServeWs runs the chat socket: an auth handshake message first, then
// message.send / message.read events until the peer goes away.
func ServeWs(c *websocketcontrib.Conn) {
	var authMsg chatAuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	accountID, err := uuid.Parse(claims["account_id"].(string))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid account ID"})
		c.Close()
		return
	}

	client := &ws.Client{AccountID: accountID, Conn: c}
	ws.Register <- client
	defer func() {
		ws.Unregister <- client
		c.Close()
	}()

	for {
		var event chatClientEvent
		if err := c.ReadJSON(&event); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", accountID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", accountID, err)
			}
			break
		}

		chatID, err := uuid.Parse(event.ChatID)
		if err != nil {
			_ = c.WriteJSON(fiber.Map{"error": "Invalid chat ID"})
			continue
		}

		switch event.Type {
		case "message.send":
			handleSendMessage(c, chatID, accountID, event.Content)
		case "message.read":
			handleReadMessages(c, chatID, accountID, event.LastReadMessageID)
		default:
			_ = c.WriteJSON(fiber.Map{"error": "Unknown event type: " + event.Type})
		}
	}
}

func handleSendMessage(c *websocketcontrib.Conn, chatID, accountID uuid.UUID, content string) {
	if content == "" {
		_ = c.WriteJSON(fiber.Map{"error": "Message content is required"})
		return
	}

	message, err := services.SaveMessage(database.DB, chatID, accountID, content, false)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Failed to save message"})
		return
	}

	_ = c.WriteJSON(fiber.Map{"type": "message.receive", "payload": message})

	partnerID, err := services.ChatPartner(database.DB, chatID, accountID)
	if err != nil {
		return
	}
	ws.Send(partnerID, "message.receive", message)
	go notifications.Notify(partnerID, models.NotificationChat, "New chat message")
}

func handleReadMessages(c *websocketcontrib.Conn, chatID, accountID uuid.UUID, lastReadRaw string) {
	lastReadID, err := uuid.Parse(lastReadRaw)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid last read message ID"})
		return
	}

	affected, err := services.MarkMessagesRead(database.DB, chatID, accountID, lastReadID)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Failed to mark messages as read"})
		return
	}

	_ = c.WriteJSON(fiber.Map{
		"type": "message.read_confirm",
		"payload": fiber.Map{
			"chat_id":              chatID,
			"last_read_message_id": lastReadID,
			"affected_count":       affected,
		},
	})

	if affected == 0 {
		return
	}

	if partnerID, err := services.ChatPartner(database.DB, chatID, accountID); err == nil {
		ws.Send(partnerID, "message.read_status", fiber.Map{
			"chat_id":              chatID,
			"last_read_message_id": lastReadID,
			"read_by":              accountID,
		})
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
