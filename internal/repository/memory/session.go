package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/msomdec/skill-swap/internal/domain"
)

// SessionStore implements domain.SessionStore with a map of byte cells.
type SessionStore struct {
	mu    sync.RWMutex
	cells map[string][]byte
}

func NewSessionStore() *SessionStore {
	return &SessionStore{cells: make(map[string][]byte)}
}

func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.cells[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (s *SessionStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cells[key] = slices.Clone(value)
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cells, key)
	return nil
}

// Len returns the number of stored cells.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}
