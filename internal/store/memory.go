// internal/store/memory.go
//
// In-memory registry of live game sessions.
// Games are ephemeral: durable progress lives in the progress package, and a
// returning player gets a fresh session seeded from it.
//
// Characteristics:
//   - Stores *Entry values keyed by game ID, with a secondary index by player.
//   - One live session per player; saving a new one evicts the previous.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Entry carries its own mutex so input to one game is serialized
//     without blocking other games.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/chainpop/apps/go-server/internal/bridge"
	"github.com/robalobadob/chainpop/apps/go-server/internal/game"
)

// ErrNotFound is returned for unknown game or player IDs.
var ErrNotFound = errors.New("not found")

// Entry is one live session: the game, its bridge and an input lock.
// A closed entry refuses all further input.
type Entry struct {
	mu     sync.Mutex
	Game   *game.Game
	Bus    *bridge.Bus
	detach func()
	closed bool
	done   chan struct{}
}

// NewEntry wires g to bus. The game must have been built with bus as its
// publisher.
func NewEntry(g *game.Game, bus *bridge.Bus) *Entry {
	return &Entry{Game: g, Bus: bus, detach: g.Attach(bus), done: make(chan struct{})}
}

// Do runs fn with exclusive access to the game. It reports false, without
// running fn, once the entry has been closed.
func (e *Entry) Do(fn func(g *game.Game)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	fn(e.Game)
	return true
}

// Publish delivers an inbound bridge event under the game lock. Events for a
// closed entry are dropped.
func (e *Entry) Publish(topic bridge.Topic, payload any) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.Bus.Publish(topic, payload)
	return true
}

// Done is closed when the entry is closed (evicted or deleted).
func (e *Entry) Done() <-chan struct{} { return e.done }

// Close detaches the game from its bridge and stops accepting input.
func (e *Entry) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.detach()
	close(e.done)
}

// Store defines the registry interface for live sessions.
type Store interface {
	// Save registers the entry, replacing any session of the same player.
	Save(ctx context.Context, e *Entry) error

	// Get retrieves a session by game ID.
	Get(ctx context.Context, id string) (*Entry, error)

	// ForPlayer retrieves the live session of a player.
	ForPlayer(ctx context.Context, player string) (*Entry, error)

	// Delete removes a session and detaches it.
	Delete(ctx context.Context, id string) error
}

type memory struct {
	mu       sync.RWMutex
	games    map[string]*Entry // keyed by Game.ID
	byPlayer map[string]string // player -> Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*Entry), byPlayer: make(map[string]string)}
}

func (m *memory) Save(ctx context.Context, e *Entry) error {
	m.mu.Lock()
	var evicted *Entry
	if old, ok := m.byPlayer[e.Game.Player]; ok && old != e.Game.ID {
		evicted = m.games[old]
		delete(m.games, old)
	}
	m.games[e.Game.ID] = e
	m.byPlayer[e.Game.Player] = e.Game.ID
	m.mu.Unlock()

	if evicted != nil {
		evicted.Close()
	}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.games[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) ForPlayer(ctx context.Context, player string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byPlayer[player]; ok {
		return m.games[id], nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.games[id]
	if ok {
		delete(m.games, id)
		if m.byPlayer[e.Game.Player] == id {
			delete(m.byPlayer, e.Game.Player)
		}
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.Close()
	return nil
}
