package client

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/pulsefeed/backend/internal/realtime"
)

// Session owns a client's channel subscriptions and view state. The
// subscription registry maps channel names to live handles; subscribe and
// unsubscribe are idempotent against it, and Teardown releases every handle
// synchronously so no relay subscription outlives the session.
type Session struct {
	relay  realtime.Relay
	selfID string
	view   *ViewState
	guard  InFlightGuard

	mu   sync.Mutex
	subs map[string]realtime.Subscription

	// OnPostUpdate, when set, is invoked after an event has been
	// reconciled into view state. Set before subscribing.
	OnPostUpdate func(realtime.PostUpdatedEvent)
}

// NewSession creates a session for the given identity over the relay
func NewSession(relay realtime.Relay, selfID string) *Session {
	return &Session{
		relay:  relay,
		selfID: selfID,
		view:   NewViewState(selfID),
		subs:   make(map[string]realtime.Subscription),
	}
}

// View exposes the session's local view state
func (s *Session) View() *ViewState {
	return s.view
}

// Subscribe attaches the session to the update channels of the given posts.
// Channels already in the registry are skipped.
func (s *Session) Subscribe(postIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, postID := range postIDs {
		channel := realtime.PostChannel(postID)
		if _, ok := s.subs[channel]; ok {
			continue
		}
		sub, err := s.relay.Subscribe(channel, s.handleMessage)
		if err != nil {
			return err
		}
		s.subs[channel] = sub
	}
	return nil
}

// Unsubscribe detaches the session from the update channels of the given
// posts. Unknown channels are ignored.
func (s *Session) Unsubscribe(postIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, postID := range postIDs {
		s.releaseLocked(realtime.PostChannel(postID))
	}
}

// Sync reconciles the subscription set against the currently visible posts:
// newly visible posts are subscribed, departed ones released
func (s *Session) Sync(visiblePostIDs []string) error {
	visible := make(map[string]bool, len(visiblePostIDs))
	for _, postID := range visiblePostIDs {
		visible[realtime.PostChannel(postID)] = true
	}

	s.mu.Lock()
	for channel := range s.subs {
		if !visible[channel] {
			s.releaseLocked(channel)
		}
	}
	s.mu.Unlock()

	return s.Subscribe(visiblePostIDs...)
}

// Teardown releases every subscription held by the session
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for channel := range s.subs {
		s.releaseLocked(channel)
	}
}

// SubscribedChannels lists the channels currently in the registry
func (s *Session) SubscribedChannels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	channels := make([]string, 0, len(s.subs))
	for channel := range s.subs {
		channels = append(channels, channel)
	}
	return channels
}

func (s *Session) releaseLocked(channel string) {
	sub, ok := s.subs[channel]
	if !ok {
		return
	}
	if err := sub.Unsubscribe(); err != nil {
		log.Printf("Failed to release subscription on %s: %v", channel, err)
	}
	delete(s.subs, channel)
}

func (s *Session) handleMessage(data []byte) {
	var envelope realtime.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Printf("Malformed realtime envelope: %v", err)
		return
	}
	if envelope.Event != realtime.EventPostUpdated {
		return
	}

	var event realtime.PostUpdatedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		log.Printf("Malformed post-updated payload: %v", err)
		return
	}

	if s.view.ApplyPostUpdate(event) && s.OnPostUpdate != nil {
		s.OnPostUpdate(event)
	}
}
