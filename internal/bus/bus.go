// Package bus fans out configuration-change events to all open windows.
// Delivery is best-effort: subscribers that fall behind miss events and are
// expected to re-fetch state when they next hear anything. A write can land
// before its notification is observed; readers tolerate that window.
package bus

import (
	"log"
	"sync"
	"time"
)

const (
	// ChannelModelConfig signals a mode-to-model assignment change.
	ChannelModelConfig = "lofty_model_config_updated"
	// ChannelAPIKeys signals a credential change.
	ChannelAPIKeys = "lofty_api_keys_updated"
)

const subscriberBuffer = 8

// Event carries only the changed channel and a timestamp; subscribers
// re-fetch rather than receiving values inline.
type Event struct {
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus is an in-process publish/subscribe hub.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel function must be called
// when the window closes.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Publish broadcasts a change notification without blocking. A full
// subscriber buffer drops the event for that subscriber.
func (b *Bus) Publish(channel string) {
	event := Event{Channel: channel, Timestamp: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := 0
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		log.Printf("⚠️ Dropped %q notification for %d slow subscribers", channel, dropped)
	}
}

// Subscribers reports the number of active listeners.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
