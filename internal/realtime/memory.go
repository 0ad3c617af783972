package realtime

import "sync"

// MemoryRelay is an in-process Relay for tests and single-node runs.
// Delivery is synchronous in subscription order.
type MemoryRelay struct {
	mu   sync.RWMutex
	subs map[string][]*memorySubscription
}

// NewMemoryRelay creates an empty in-process relay
func NewMemoryRelay() *MemoryRelay {
	return &MemoryRelay{subs: make(map[string][]*memorySubscription)}
}

type memorySubscription struct {
	relay   *MemoryRelay
	channel string
	handler func(data []byte)
}

func (s *memorySubscription) Unsubscribe() error {
	s.relay.mu.Lock()
	defer s.relay.mu.Unlock()
	subs := s.relay.subs[s.channel]
	for i, sub := range subs {
		if sub == s {
			s.relay.subs[s.channel] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(s.relay.subs[s.channel]) == 0 {
		delete(s.relay.subs, s.channel)
	}
	return nil
}

func (r *MemoryRelay) Publish(channel string, data []byte) error {
	r.mu.RLock()
	subs := make([]*memorySubscription, len(r.subs[channel]))
	copy(subs, r.subs[channel])
	r.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(data)
	}
	return nil
}

func (r *MemoryRelay) Subscribe(channel string, handler func(data []byte)) (Subscription, error) {
	sub := &memorySubscription{relay: r, channel: channel, handler: handler}
	r.mu.Lock()
	r.subs[channel] = append(r.subs[channel], sub)
	r.mu.Unlock()
	return sub, nil
}

// SubscriberCount reports the live subscriptions on a channel
func (r *MemoryRelay) SubscriberCount(channel string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[channel])
}
