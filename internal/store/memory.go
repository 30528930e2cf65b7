// internal/store/memory.go
//
// In-memory implementation of the round Store.
// Rounds live here between HTTP requests; each round still guards its own
// state, the store only guards the map.
//
// Characteristics:
//   - Rounds keyed by ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Save and Get both mark a round as used; Sweep drops rounds unused since a cutoff.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/snoowords/go-server/internal/game"
)

var ErrNotFound = errors.New("round not found")

// Store keeps live rounds.
type Store interface {
	// Save adds or replaces a round.
	Save(ctx context.Context, r *game.Round) error

	// Get returns a round by ID or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Round, error)

	// Delete forgets a round; missing IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Has reports whether a round is stored without marking it as used.
	Has(ctx context.Context, id string) bool
}

type entry struct {
	round    *game.Round
	lastUsed time.Time
}

// Memory is a map-based Store.
type Memory struct {
	mu     sync.RWMutex
	rounds map[string]*entry
	now    func() time.Time
}

// NewMemoryStore constructs an empty Memory store.
func NewMemoryStore() *Memory {
	return &Memory{rounds: make(map[string]*entry), now: time.Now}
}

func (m *Memory) Save(_ context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID()] = &entry{round: r, lastUsed: m.now()}
	return nil
}

// Get returns the round and marks it as used.
func (m *Memory) Get(_ context.Context, id string) (*game.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.rounds[id]; ok {
		e.lastUsed = m.now()
		return e.round, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
	return nil
}

func (m *Memory) Has(_ context.Context, id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rounds[id]
	return ok
}

// Len returns the number of stored rounds.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}

// Sweep removes rounds not used since cutoff and returns how many went.
func (m *Memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.rounds {
		if e.lastUsed.Before(cutoff) {
			delete(m.rounds, id)
			n++
		}
	}
	return n
}
