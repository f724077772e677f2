package session

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxAge is how long an idle session survives before the sweeper
// discards it.
const DefaultMaxAge = 12 * time.Hour

// DefaultSweepInterval is how often expired sessions are collected.
const DefaultSweepInterval = time.Hour

// Store persists conversation sessions. Merge is the only mutation path:
// implementations serialize concurrent Merge calls for the same conversation
// id, so the mutate callback always sees the latest state and partial writes
// from interleaved webhook deliveries cannot occur.
type Store interface {
	// Get returns the session for id, or nil if none exists.
	Get(ctx context.Context, id string) (*Session, error)
	// Merge loads (or creates) the session for id, applies mutate under the
	// per-conversation lock, refreshes LastAccessed and persists the result.
	Merge(ctx context.Context, id string, mutate func(*Session)) (*Session, error)
	// Clear removes the session for id. Clearing an absent id is a no-op.
	Clear(ctx context.Context, id string) error
}

// keyedMutex hands out one mutex per conversation id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(id string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	return m
}

func (k *keyedMutex) drop(id string) {
	k.mu.Lock()
	delete(k.locks, id)
	k.mu.Unlock()
}

// MemoryStore keeps sessions in process memory. Suitable for a single
// instance; use RedisStore when running more than one.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	locks    *keyedMutex

	maxAge time.Duration
	now    func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMaxAge overrides the idle expiry window.
func WithMaxAge(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.maxAge = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		locks:    newKeyedMutex(),
		maxAge:   DefaultMaxAge,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the stored session, so callers cannot mutate shared
// state outside Merge.
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return sess.Clone(), nil
}

// Merge applies mutate under the conversation's lock and stores the result.
func (s *MemoryStore) Merge(_ context.Context, id string, mutate func(*Session)) (*Session, error) {
	lock := s.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()

	s.mu.RLock()
	stored, ok := s.sessions[id]
	s.mu.RUnlock()

	var sess *Session
	if ok {
		sess = stored.Clone()
	} else {
		sess = &Session{Step: StepStart, CreatedAt: now}
	}

	mutate(sess)
	sess.LastAccessed = now

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return sess.Clone(), nil
}

// Clear removes the session and its lock.
func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	s.locks.drop(id)
	return nil
}

// Sweep removes every session idle for longer than the max age and returns
// how many were discarded.
func (s *MemoryStore) Sweep() int {
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastAccessed.Before(cutoff) {
			delete(s.sessions, id)
			s.locks.drop(id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
