package cache

import (
	"context"
	"sync"
	"time"

	"github.com/teamseason/backend/internal/domain/shared"
)

// markSweepInterval is how often expired webhook marks are dropped
const markSweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore remembers processed webhook event IDs in a
// process-local map. It backs single-instance deployments and tests;
// anything running more than one replica needs the Redis store so all
// replicas share one view of which deliveries already ran.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	marks     map[string]time.Time // event ID to mark expiry
	stop      chan struct{}
	sweepDone chan struct{}
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts a sweeper
// for expired marks, so a long-lived process does not hold an entry
// per webhook forever.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		marks:     make(map[string]time.Time),
		stop:      make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	go s.sweep()
	return s
}

// MarkProcessed claims one event delivery. The first caller for an
// event ID gets true; every later delivery within the TTL gets false.
// An expired mark counts as absent and can be claimed again.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.marks[eventID]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	s.marks[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether an unexpired mark exists for the event
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiry, ok := s.marks[eventID]
	return ok && time.Now().Before(expiry), nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.sweepDone
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweep() {
	defer close(s.sweepDone)

	ticker := time.NewTicker(markSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiry := range s.marks {
		if now.After(expiry) {
			delete(s.marks, eventID)
		}
	}
}

// Size reports how many marks are held, expired ones included
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.marks)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
