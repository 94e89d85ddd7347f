package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/mohammad-safakhou/newscast/models"
)

// Clock reports the current time. Tests inject a controllable one.
type Clock func() time.Time

type entry struct {
	value      models.ReportResponse
	insertedAt time.Time
}

// Store is a process-local TTL cache. Expired entries are dropped lazily on read and,
// when Sweep runs, periodically in the background.
type Store struct {
	entries map[string]entry
	ttl     time.Duration
	now     Clock
	mu      sync.RWMutex
}

// NewStore creates an empty store. A nil clock uses time.Now.
func NewStore(ttl time.Duration, clock Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{entries: make(map[string]entry), ttl: ttl, now: clock}
}

func (s *Store) expired(e entry, now time.Time) bool {
	return now.Sub(e.insertedAt) > s.ttl
}

func (s *Store) Get(ctx context.Context, key string) (models.ReportResponse, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return models.ReportResponse{}, false, nil
	}
	if s.expired(e, s.now()) {
		s.mu.Lock()
		// re-check: a fresh Set may have landed between the two locks
		if cur, ok := s.entries[key]; ok && s.expired(cur, s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return models.ReportResponse{}, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value models.ReportResponse) error {
	s.mu.Lock()
	s.entries[key] = entry{value: value, insertedAt: s.now()}
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included until evicted.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Evict removes every expired entry and returns how many were dropped.
func (s *Store) Evict() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Sweep calls Evict every interval until ctx is done.
func (s *Store) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict()
		}
	}
}
