package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/snapsbooking/bookngon-api/internal/booking"
)

// MemoryStore keeps sessions in process memory. Used in tests and for local
// development without Redis. Sessions are stored as JSON so the round-trip
// matches the Redis store exactly.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
	}
}

func (s *MemoryStore) Save(ctx context.Context, sess *booking.Session) error {
	sess.Touch()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("sessions: failed to marshal session: %w", err)
	}

	s.mu.Lock()
	s.sessions[sess.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*booking.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var sess booking.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("sessions: failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
