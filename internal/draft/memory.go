package draft

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps drafts in process memory
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]*Draft)}
}

// Put records a draft. It never fails.
func (s *MemoryStore) Put(ctx context.Context, path, filename string) (string, error) {
	d := &Draft{
		ID:        newID(),
		Path:      path,
		Filename:  filename,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()

	return d.ID, nil
}

// Get returns a copy of the draft with the given id
func (s *MemoryStore) Get(ctx context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Take returns the draft and forgets it
func (s *MemoryStore) Take(ctx context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.drafts, id)
	return d, nil
}

// Expire removes drafts older than olderThan
func (s *MemoryStore) Expire(ctx context.Context, olderThan time.Duration) ([]*Draft, error) {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*Draft
	for id, d := range s.drafts {
		if d.CreatedAt.Before(cutoff) {
			expired = append(expired, d)
			delete(s.drafts, id)
		}
	}
	return expired, nil
}

// Len returns the number of stored drafts
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
