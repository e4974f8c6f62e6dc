package service

import (
	"sync"

	"github.com/wonny/stockaura/internal/contracts"
)

// EventType distinguishes stream events
type EventType string

const (
	EventVerdict EventType = "verdict" // snapshot stored; Verdict is the fresh evaluation
	EventDeleted EventType = "deleted" // snapshot removed
)

// subscriberBuffer is the per-subscriber queue depth; a full queue drops events
const subscriberBuffer = 64

// VerdictEvent is one change notification on the verdict stream
type VerdictEvent struct {
	Type    EventType                   `json:"type"`
	Ticker  string                      `json:"ticker"`
	Verdict *contracts.VerdictViewModel `json:"verdict,omitempty"`
}

// broadcaster fans events out to subscribers without blocking the publisher
type broadcaster struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]chan VerdictEvent
	dropped func()
}

func newBroadcaster(dropped func()) *broadcaster {
	return &broadcaster{subs: make(map[int]chan VerdictEvent), dropped: dropped}
}

func (b *broadcaster) subscribe() (<-chan VerdictEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan VerdictEvent, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *broadcaster) publish(ev VerdictEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped()
		}
	}
}

func (b *broadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Subscribe registers a verdict stream listener. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (s *Service) Subscribe() (<-chan VerdictEvent, func()) {
	return s.events.subscribe()
}

// Subscribers returns the number of active stream listeners
func (s *Service) Subscribers() int {
	return s.events.count()
}
