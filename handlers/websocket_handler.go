package handlers

import (
	"log"
	"net/http"

	"github.com/Dosada05/league-system/live"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs подключает клиента к комнате дивизиона для live-обновлений
// матчей и таблицы. Клиент подключается к /ws/divisions/{division}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection for division %q: %v", division, err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.DivisionRoom(division),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
