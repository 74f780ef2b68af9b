// internal/bridge/bus.go
//
// Sync Bridge between the puzzle engine and the UI layer.
// Responsibilities:
//   - Topic-based publish/subscribe with synchronous, in-order delivery.
//   - Outbound notifications (level, target, moves, scores, board, ...).
//   - Inbound commands (mute toggle, persisted data arrival).
//
// Notes:
//   - Handlers run on the publisher's goroutine, in subscription order.
//   - Subscribing or unsubscribing from inside a handler is allowed; it takes
//     effect from the next Publish.
//   - The engine only sees the Publisher interface; transports (WebSocket)
//     attach with SubscribeAll and never leak their types into the engine.

package bridge

import "sync"

// Topic names an event stream.
type Topic string

// Outbound topics.
const (
	TopicLevel         Topic = "level"
	TopicTarget        Topic = "target"
	TopicMoves         Topic = "moves"
	TopicScores        Topic = "scores"
	TopicBoard         Topic = "board"
	TopicChain         Topic = "chain"
	TopicResolved      Topic = "resolved"
	TopicLevelComplete Topic = "level:complete"
	TopicLevelFailed   Topic = "level:failed"
	TopicSound         Topic = "sound"
)

// Inbound topics.
const (
	TopicMute            Topic = "mute"
	TopicPersistedLoaded Topic = "persisted:loaded"
)

// Counter is the payload of TopicMoves and TopicScores.
type Counter struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// PersistedData is the payload of TopicPersistedLoaded.
type PersistedData struct {
	Level int `json:"level"`
	Score int `json:"score"`
	Move  int `json:"move"`
}

// Event is one published message.
type Event struct {
	Topic   Topic `json:"t"`
	Payload any   `json:"m"`
}

// Handler receives events.
type Handler func(Event)

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(topic Topic, payload any)
}

type subscription struct {
	id int
	fn Handler
}

// Bus is an in-process topic bus.
type Bus struct {
	mu     sync.RWMutex
	topics map[Topic][]subscription
	all    []subscription
	nextID int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[Topic][]subscription)}
}

// Subscribe registers fn for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.topics[topic] = without(b.topics[topic], id)
	}
}

// SubscribeAll registers fn for every topic.
func (b *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = without(b.all, id)
	}
}

// Publish delivers payload to topic subscribers, then to catch-all ones.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.topics[topic])+len(b.all))
	subs = append(subs, b.topics[topic]...)
	subs = append(subs, b.all...)
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		s.fn(ev)
	}
}

func without(subs []subscription, id int) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
