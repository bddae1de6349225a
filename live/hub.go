package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is what the hub pushes to every connected auction-floor client.
type Event struct {
	Type    string      `json:"type"` // e.g. "SALE", "WIPE"
	Payload interface{} `json:"payload"`
}

// SaleEvent announces a committed purchase, mirroring the floor banner:
// "Kohli (90) | CSK (450)".
type SaleEvent struct {
	PlayerID   int    `json:"player_id"`
	Player     string `json:"player"`
	Rating     int    `json:"rating"`
	Team       string `json:"team"`
	SoldAmount int    `json:"sold_amount"`
	TeamRating int    `json:"team_rating"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Hub fans events out to all connected clients. There is a single auction
// floor, so unlike a per-room hub every client sees every event.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			log.Printf("feed client registered, total: %d", len(h.clients))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				client.closeSend()
				delete(h.clients, client)
				log.Printf("feed client unregistered, total: %d", len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for client := range h.clients {
				client.trySend(message)
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent marshals the event and queues it for every client. Safe to
// call from any goroutine; a nil hub is a no-op so services can run without
// a live feed in tests.
func (h *Hub) BroadcastEvent(eventType string, payload interface{}) {
	if h == nil {
		return
	}

	messageBytes, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("error marshalling %s event: %v", eventType, err)
		return
	}

	select {
	case h.Broadcast <- messageBytes:
	default:
		log.Printf("feed broadcast channel full, dropping %s event", eventType)
	}
}
