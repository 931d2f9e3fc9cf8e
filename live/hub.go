package live

import (
	"encoding/json"
	"log"
	"sync"
)

// EventType описывает тип сообщения, уходящего подписчикам комнаты.
type EventType string

const (
	EventMatchScheduled   EventType = "MATCH_SCHEDULED"
	EventMatchUpdated     EventType = "MATCH_UPDATED"
	EventMatchReset       EventType = "MATCH_RESET"
	EventStandingsChanged EventType = "STANDINGS_CHANGED"
)

type Message struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// DivisionRoom returns the room id used for live updates within a division.
// An empty division maps to the league-wide room.
func DivisionRoom(division string) string {
	if division == "" {
		return "division_all"
	}
	return "division_" + division
}

// Hub раздаёт live-события по комнатам. Комната живёт, пока в ней есть хотя
// бы один подписчик.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			log.Printf("ws: room %s now has %d subscriber(s)", client.Room, len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.Room]; ok {
				if _, okClient := roomClients[client]; okClient {
					client.Mu.Lock()
					if !client.IsClosed {
						close(client.Send)
						client.IsClosed = true
					}
					client.Mu.Unlock()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.Room)
						log.Printf("ws: room %s dropped, no subscribers left", client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom отправляет сообщение всем клиентам в указанной комнате.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal event for room %s: %v", roomID, err)
		return
	}

	for client := range roomClients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			// Медленный подписчик не должен тормозить остальных, событие
			// для него просто пропускается.
			log.Printf("ws: dropping event for slow client in room %s", roomID)
		}
		client.Mu.Unlock()
	}
}
