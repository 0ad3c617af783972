package client

import (
	"encoding/json"
	"log"

	"github.com/pulsefeed/backend/internal/realtime"
)

// NotificationWatcher holds the single subscription on a user's personal
// notification channel for the lifetime of a session
type NotificationWatcher struct {
	sub realtime.Subscription
}

// WatchNotifications subscribes the user's notification channel once and
// invokes refetch on every new-notification push. The pushed payload is not
// merged incrementally: re-fetching the whole list keeps it consistent with
// bulk mark-as-read.
func WatchNotifications(relay realtime.Relay, userID string, refetch func()) (*NotificationWatcher, error) {
	channel := realtime.NotificationChannel(userID)
	sub, err := relay.Subscribe(channel, func(data []byte) {
		var envelope realtime.Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			log.Printf("Malformed realtime envelope on %s: %v", channel, err)
			return
		}
		if envelope.Event != realtime.EventNewNotification {
			return
		}
		refetch()
	})
	if err != nil {
		return nil, err
	}
	return &NotificationWatcher{sub: sub}, nil
}

// Stop releases the channel subscription
func (w *NotificationWatcher) Stop() {
	if w.sub == nil {
		return
	}
	if err := w.sub.Unsubscribe(); err != nil {
		log.Printf("Failed to release notification subscription: %v", err)
	}
	w.sub = nil
}
