package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store.
// Sessions are lost on server restart.
type MemoryStore struct {
	mu  sync.RWMutex
	m   map[string]Session
	now func() time.Time
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock is NewMemoryStore with a custom time source.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		m:   make(map[string]Session),
		now: now,
	}
}

func (s *MemoryStore) Create(_ context.Context, sess Session) (Session, error) {
	sess.ID = uuid.NewString()
	sess.IssuedAt = s.now().UTC()
	if sess.TTL <= 0 {
		sess.TTL = DefaultTTL
	}

	s.mu.Lock()
	s.m[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get retrieves a session by ID. Expired sessions are removed and reported
// as ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.m[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, ErrNotFound
	}

	if Expired(s.now(), sess.IssuedAt, sess.TTL) {
		s.mu.Lock()
		delete(s.m, id)
		s.mu.Unlock()
		return Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeleteByWorker(_ context.Context, workerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.m {
		if sess.WorkerID == workerID {
			delete(s.m, id)
			n++
		}
	}
	return n, nil
}

// Sweep drops every expired session and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.m {
		if Expired(now, sess.IssuedAt, sess.TTL) {
			delete(s.m, id)
			n++
		}
	}
	return n
}
