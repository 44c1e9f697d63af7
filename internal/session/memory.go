package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewMemoryStore creates a memory store. Sessions idle for longer than ttl
// are dropped; ttl <= 0 keeps them forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) lookup(id string) (*Session, bool) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && time.Since(s.UpdatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	return s, true
}

// Get returns a copy of the session
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

// Update applies fn under the store lock
func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.lookup(id)
	if ok {
		s = clone(s)
	} else {
		s = &Session{ID: id}
	}

	if err := fn(s); err != nil {
		return nil, err
	}
	s.ID = id
	s.UpdatedAt = time.Now()
	m.sessions[id] = s

	return clone(s), nil
}

// Delete removes the session
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

func clone(s *Session) *Session {
	cp := *s
	cp.History = append([]Turn(nil), s.History...)
	cp.General = append([]Turn(nil), s.General...)
	cp.PDF = append([]byte(nil), s.PDF...)
	return &cp
}
