// internal/progress/memory.go
//
// In-memory implementation of the progress Store.
// Used in development and tests, or when durability is not required.
//
// Characteristics:
//   - Documents keyed by player id in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Put stores raw documents so tests can seed malformed data.

package progress

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Doc
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Doc)}
}

func recordDoc(r Record) Doc {
	return Doc{"score": r.Score, "move": r.Move, "level": r.Level}
}

func (m *MemoryStore) Load(ctx context.Context, playerID string) (Doc, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[playerID]
	if !ok {
		return nil, false, nil
	}
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out, true, nil
}

func (m *MemoryStore) Create(ctx context.Context, playerID string, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[playerID]
	if !ok {
		d = Doc{}
		m.docs[playerID] = d
	}
	for k, v := range recordDoc(r) {
		d[k] = v
	}
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, playerID string, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[playerID]; !ok {
		return ErrNotFound
	}
	m.docs[playerID] = recordDoc(r)
	return nil
}

// Put stores a raw document.
func (m *MemoryStore) Put(playerID string, d Doc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[playerID] = d
}
