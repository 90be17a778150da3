package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/loopbot/internal/core"
)

var newID = func() string { return uuid.NewString() }

type entry struct {
	mu  sync.Mutex
	ctx *core.SessionContext

	// pending counts turns holding or waiting for mu, guarded by Store.mu.
	pending  int
	lastSeen atomic.Int64
}

// Store owns every live SessionContext. Turns on one session are
// serialized, different sessions proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// NewID returns a fresh opaque session identifier.
func NewID() string {
	return newID()
}

// With runs fn with exclusive access to the session, creating it on first
// use. The lock is released on every exit path, including panics.
func (s *Store) With(id string, fn func(*core.SessionContext)) {
	e := s.acquire(id)
	e.mu.Lock()
	defer s.release(e)
	defer e.mu.Unlock()
	fn(e.ctx)
}

func (s *Store) acquire(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{ctx: core.NewSessionContext()}
		s.sessions[id] = e
	}
	e.pending++
	e.lastSeen.Store(s.now().UnixNano())
	return e
}

func (s *Store) release(e *entry) {
	e.lastSeen.Store(s.now().UnixNano())
	s.mu.Lock()
	e.pending--
	s.mu.Unlock()
}

// Snapshot returns a copy of the session state, or false when unknown.
func (s *Store) Snapshot(id string) (*core.SessionContext, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Clone(), true
}

// Reset forgets a session. Returns false when it did not exist or is busy.
func (s *Store) Reset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok || e.pending > 0 {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than ttl and returns how many were
// removed. Sessions with a turn in flight are kept. A zero ttl keeps all.
func (s *Store) Evict(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.sessions {
		if e.pending > 0 || e.lastSeen.Load() >= cutoff {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}
