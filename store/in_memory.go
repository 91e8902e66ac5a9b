package store

import (
	"context"
	"sync"

	"github.com/hupe1980/pmcopilot/core"
)

// InMemoryStore is a volatile StateStore keeping snapshots in a process
// local map. It is safe for concurrent access and best suited for tests
// or ephemeral demo setups. Snapshots are cloned on both Load and Save
// so callers never alias internal state.
type InMemoryStore struct {
	mu     sync.RWMutex
	states map[string]*core.ConversationState
}

var _ StateStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory state store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]*core.ConversationState)}
}

// Load returns a clone of the stored state or ErrNotFound.
func (s *InMemoryStore) Load(_ context.Context, threadID string) (*core.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[threadID]
	if !ok {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

// Save stores a clone of the provided snapshot.
func (s *InMemoryStore) Save(_ context.Context, threadID string, state *core.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[threadID] = state.Clone()
	return nil
}
