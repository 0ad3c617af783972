package ws

import (
	"log"
	"sync"

	"github.com/pulsefeed/backend/internal/realtime"
)

// Hub bridges relay channels to websocket clients. It holds one relay
// subscription per channel with at least one attached client and fans every
// delivery out to the channel's clients. The relay handle is released
// synchronously when the last client leaves a channel.
type Hub struct {
	relay realtime.Relay

	mu       sync.Mutex
	channels map[string]*channelState
}

type channelState struct {
	sub     realtime.Subscription
	clients map[*Client]bool
}

// NewHub creates a Hub over the given relay
func NewHub(relay realtime.Relay) *Hub {
	return &Hub{
		relay:    relay,
		channels: make(map[string]*channelState),
	}
}

// Subscribe attaches a client to a channel, opening the relay subscription
// on first attach. Re-subscribing an already-attached client is a no-op.
func (h *Hub) Subscribe(client *Client, channel string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.channels[channel]
	if !ok {
		sub, err := h.relay.Subscribe(channel, func(data []byte) {
			h.fanOut(channel, data)
		})
		if err != nil {
			return err
		}
		state = &channelState{sub: sub, clients: make(map[*Client]bool)}
		h.channels[channel] = state
	}
	state.clients[client] = true
	return nil
}

// Unsubscribe detaches a client from a channel, releasing the relay
// subscription when no client remains
func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(client, channel)
}

// Detach removes a client from every channel. Called on connection
// teardown.
func (h *Hub) Detach(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel, state := range h.channels {
		if state.clients[client] {
			h.detachLocked(client, channel)
		}
	}
}

// ChannelCount reports the number of live relay subscriptions
func (h *Hub) ChannelCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

func (h *Hub) detachLocked(client *Client, channel string) {
	state, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(state.clients, client)
	if len(state.clients) == 0 {
		if err := state.sub.Unsubscribe(); err != nil {
			log.Printf("Failed to release relay subscription on %s: %v", channel, err)
		}
		delete(h.channels, channel)
	}
}

func (h *Hub) fanOut(channel string, data []byte) {
	h.mu.Lock()
	state, ok := h.channels[channel]
	var clients []*Client
	if ok {
		clients = make([]*Client, 0, len(state.clients))
		for client := range state.clients {
			clients = append(clients, client)
		}
	}
	h.mu.Unlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			log.Printf("Send buffer full for client of user %s, message dropped on %s", client.UserID, channel)
		}
	}
}
