package mockinterview

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store persists sessions between requests. Get returns (nil, nil) for an
// unknown or expired session.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps encoded sessions in process memory. Each Get decodes a
// private copy so callers never share question slices.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates a store whose sessions expire ttl after their last save.
// A non-positive ttl keeps sessions until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && m.expired(e) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeSession(e.data)
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{data: data}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[s.ID] = e
	m.sweep()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

// sweep drops expired entries; called with mu held.
func (m *MemoryStore) sweep() {
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
		}
	}
}

func decodeSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Selected == nil {
		s.Selected = map[Category]bool{}
	}
	if s.Finished == nil {
		s.Finished = map[Category]bool{}
	}
	if s.Questions == nil {
		s.Questions = []Question{}
	}
	return &s, nil
}
