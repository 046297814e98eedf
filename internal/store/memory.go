// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is the default backend for ephemeral game sessions.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update holds the read lock only for the lookup; Session.Submit's own
//     mutex orders attempts on one session.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/joannatufkova/mindset/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Update runs fn on the session and persists the result when fn returns nil.
	// Attempts on one session are ordered: by the session's own mutex in
	// memory, by an immediate transaction in SQLite. An error from fn is
	// returned unchanged.
	Update(ctx context.Context, id string, fn func(*game.Session) error) (*game.Session, error)

	// Close releases backend resources.
	Close() error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Create(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) (*game.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *memory) Close() error { return nil }
