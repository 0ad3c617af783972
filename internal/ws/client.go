package ws

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pulsefeed/backend/internal/realtime"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// ControlMessage is what a connected client sends to manage its channel set
type ControlMessage struct {
	Action  string `json:"action"` // "subscribe" or "unsubscribe"
	Channel string `json:"channel"`
}

// Client is a middleman between one websocket connection and the hub
type Client struct {
	Hub    *Hub
	UserID string
	Conn   *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte
}

// NewClient creates a client for an upgraded connection
func NewClient(hub *Hub, userID string, conn *websocket.Conn) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
}

// allowed guards which channels a client may attach to: any post channel,
// but only its own notification channel
func (c *Client) allowed(channel string) bool {
	if strings.HasPrefix(channel, "post-") {
		return true
	}
	return channel == realtime.NotificationChannel(c.UserID)
}

// ReadPump consumes control messages from the connection until it closes,
// then detaches the client from every channel
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Detach(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for user %s: %v", c.UserID, err)
			}
			break
		}

		var control ControlMessage
		if err := json.Unmarshal(message, &control); err != nil {
			log.Printf("Malformed control message from user %s: %v", c.UserID, err)
			continue
		}
		if !c.allowed(control.Channel) {
			log.Printf("User %s denied subscription to %s", c.UserID, control.Channel)
			continue
		}

		switch control.Action {
		case "subscribe":
			if err := c.Hub.Subscribe(c, control.Channel); err != nil {
				log.Printf("Subscribe to %s failed for user %s: %v", control.Channel, c.UserID, err)
			}
		case "unsubscribe":
			c.Hub.Unsubscribe(c, control.Channel)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for user %s: %v", c.UserID, err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
