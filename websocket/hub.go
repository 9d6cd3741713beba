package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	AccountID uuid.UUID
	Conn      *websocket.Conn
}

// Event is one push frame delivered to a single connected account.
type Event struct {
	AccountID uuid.UUID `json:"-"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Push = make(chan *Event, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.AccountID)
			clientsMu.Lock()
			clients[client.AccountID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.AccountID)
			clientsMu.Lock()
			if conn, ok := clients[client.AccountID]; ok && conn == client.Conn {
				delete(clients, client.AccountID)
			}
			clientsMu.Unlock()
		case event := <-Push:
			clientsMu.RLock()
			conn, ok := clients[event.AccountID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Error pushing %s event to client %s: %v", event.Type, event.AccountID, err)
				conn.Close()
				clientsMu.Lock()
				if current, ok := clients[event.AccountID]; ok && current == conn {
					delete(clients, event.AccountID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// Send queues a push event without blocking the caller; events for accounts
// with no open socket are dropped by the hub.
func Send(accountID uuid.UUID, eventType string, payload any) {
	select {
	case Push <- &Event{AccountID: accountID, Type: eventType, Payload: payload}:
	default:
		log.Printf("Push queue full, dropping %s event for %s", eventType, accountID)
	}
}
