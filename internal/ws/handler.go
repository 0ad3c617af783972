package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pulsefeed/backend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests to websocket connections attached
// to the hub
type Handler struct {
	hub *Hub
}

// NewHandler creates a websocket Handler
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Serve upgrades the connection and starts the client pumps. The caller's
// personal notification channel is attached immediately; post channels are
// managed by control messages as the visible post set changes.
func (h *Handler) Serve(c echo.Context) error {
	userID, _ := c.Get("userID").(string)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(h.hub, userID, conn)
	if err := h.hub.Subscribe(client, realtime.NotificationChannel(userID)); err != nil {
		log.Printf("Failed to attach notification channel for user %s: %v", userID, err)
	}

	go client.WritePump()
	go client.ReadPump()
	return nil
}
