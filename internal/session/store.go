package session

import (
	"sync"
	"time"

	"github.com/vytor/studyflash/internal/clock"
)

// Store holds ephemeral per-session state keyed by (user, session id).
// Get returns a zero Tally when nothing is stored.
type Store interface {
	Get(userID int64, sessionID string) Tally
	Set(userID int64, sessionID string, t Tally)
	// Update applies fn atomically and returns the stored result.
	Update(userID int64, sessionID string, fn func(Tally) Tally) Tally
	Clear(userID int64, sessionID string)
	// Take removes the session and returns what it held. Of two concurrent
	// calls only one sees the stored tally.
	Take(userID int64, sessionID string) Tally
}

type key struct {
	userID    int64
	sessionID string
}

type entry struct {
	tally   Tally
	touched time.Time
}

// MemoryStore is a process-local Store. Sessions nobody touched for a while
// can be dropped with Expire.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[key]entry
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(clock.Real{})
}

func NewMemoryStoreWithClock(c clock.Clock) *MemoryStore {
	return &MemoryStore{clock: c, entries: make(map[key]entry)}
}

func (s *MemoryStore) Get(userID int64, sessionID string) Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key{userID, sessionID}].tally
}

func (s *MemoryStore) Set(userID int64, sessionID string, t Tally) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key{userID, sessionID}] = entry{tally: t, touched: s.clock.Now()}
}

func (s *MemoryStore) Update(userID int64, sessionID string, fn func(Tally) Tally) Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, sessionID}
	t := fn(s.entries[k].tally)
	s.entries[k] = entry{tally: t, touched: s.clock.Now()}
	return t
}

func (s *MemoryStore) Clear(userID int64, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key{userID, sessionID})
}

func (s *MemoryStore) Take(userID int64, sessionID string) Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, sessionID}
	t := s.entries[k].tally
	delete(s.entries, k)
	return t
}

// Expire drops sessions not written to within maxAge and returns how many were dropped.
func (s *MemoryStore) Expire(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-maxAge)
	n := 0
	for k, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Len reports how many sessions are held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
