package realtime

import (
	"encoding/json"
	"log"
	"sync/atomic"

	"github.com/pulsefeed/backend/internal/models"
)

// Publisher pushes event payloads to relay channels. The contract is
// best-effort, at-most-one-attempt: a failed publish is logged, counted and
// reported to the hook, never retried and never surfaced to the caller.
// Mutations are already committed by the time anything is published here.
type Publisher struct {
	relay   Relay
	dropped atomic.Int64
	onError func(channel, event string, err error)
}

// NewPublisher creates a Publisher over the given relay
func NewPublisher(relay Relay) *Publisher {
	return &Publisher{relay: relay}
}

// SetErrorHook installs an observability callback invoked on every dropped
// event. Must be set before the publisher is shared.
func (p *Publisher) SetErrorHook(hook func(channel, event string, err error)) {
	p.onError = hook
}

// Dropped reports how many events have been dropped since startup
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Publish sends one event on one channel. Fire-and-forget: errors are
// recorded, not returned.
func (p *Publisher) Publish(channel, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.drop(channel, event, err)
		return
	}
	envelope, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		p.drop(channel, event, err)
		return
	}
	if err := p.relay.Publish(channel, envelope); err != nil {
		p.drop(channel, event, err)
	}
}

// PublishPostUpdated broadcasts fresh absolute counts on the post's channel
func (p *Publisher) PublishPostUpdated(event PostUpdatedEvent) {
	p.Publish(PostChannel(event.PostID), EventPostUpdated, event)
}

// PublishNewNotification pushes a notification record to its recipient's
// personal channel
func (p *Publisher) PublishNewNotification(notification *models.Notification) {
	p.Publish(NotificationChannel(notification.UserID), EventNewNotification, notification)
}

func (p *Publisher) drop(channel, event string, err error) {
	p.dropped.Add(1)
	log.Printf("Realtime publish failed on %s (%s), event dropped: %v", channel, event, err)
	if p.onError != nil {
		p.onError(channel, event, err)
	}
}
