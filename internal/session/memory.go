package session

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Session)}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.items[id]; ok {
		return sess.Clone(), nil
	}
	return New(), nil
}

func (s *MemoryStore) Put(_ context.Context, id string, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = sess.Clone()
	return nil
}

func (s *MemoryStore) Evict(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// Has reports whether a session is stored under id.
func (s *MemoryStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[id]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}
