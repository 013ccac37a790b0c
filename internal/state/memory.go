package state

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCleanupInterval is used when NewMemoryStore is given a non-positive interval.
const DefaultCleanupInterval = time.Minute

// MemoryStore keeps states in process memory. States do not survive a restart
// and are not shared between replicas.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time // state -> expiry

	now           func() time.Time
	cleanupTicker *time.Ticker
	cleanupDone   chan struct{}
	closeOnce     sync.Once
	logger        *slog.Logger
}

// NewMemoryStore creates a MemoryStore and starts its cleanup loop.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	s := &MemoryStore{
		entries:       make(map[string]time.Time),
		now:           time.Now,
		cleanupTicker: time.NewTicker(cleanupInterval),
		cleanupDone:   make(chan struct{}),
		logger:        slog.Default(),
	}

	go s.cleanupLoop()

	return s
}

// Save records state until now+ttl. Saving an existing state resets its expiry.
func (s *MemoryStore) Save(_ context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return ErrEmptyState
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = s.now().Add(ttl)
	return nil
}

// Consume removes state and reports whether it was present and unexpired.
func (s *MemoryStore) Consume(_ context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.entries[state]
	if !ok {
		return false, nil
	}
	delete(s.entries, state)
	return s.now().Before(expiry), nil
}

// Len returns the number of stored states, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the cleanup loop. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		s.cleanupTicker.Stop()
		close(s.cleanupDone)
	})
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.cleanupTicker.C:
			if removed := s.removeExpired(); removed > 0 {
				s.logger.Debug("Cleaned up expired OAuth states", "count", removed)
			}
		case <-s.cleanupDone:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for state, expiry := range s.entries {
		if !now.Before(expiry) {
			delete(s.entries, state)
			removed++
		}
	}
	return removed
}
