package handlers

import (
	"log"
	"net/http"

	"github.com/Hariom00027/hackathon-system/live"
	"github.com/Hariom00027/hackathon-system/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub              *live.Hub
	hackathonService services.HackathonService
}

func NewWebSocketHandler(hub *live.Hub, hs services.HackathonService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:              hub,
		hackathonService: hs,
	}
}

// ServeWs подключает клиента к комнате хакатона.
// Клиент подключается к /ws/hackathons/{hackathonID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Комната открывается только для существующего хакатона.
	if _, err := h.hackathonService.GetByID(r.Context(), hackathonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection for hackathon %d: %v", hackathonID, err)
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту.
		return
	}

	roomID := live.HackathonRoom(hackathonID)

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
