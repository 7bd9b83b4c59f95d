package cache

import (
	"context"
	"sync"
	"time"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"
)

// MemoryStateStore implements StateStore with an in-process map.
// Suitable for single-instance deployments and tests.
type MemoryStateStore struct {
	mu        sync.Mutex
	sessions  map[string]domain.OAuthSession
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryStateStore creates a store that sweeps expired sessions every interval
func NewMemoryStateStore(interval time.Duration) *MemoryStateStore {
	s := &MemoryStateStore{
		sessions: make(map[string]domain.OAuthSession),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(interval)

	return s
}

// Save stores the session until ttl elapses, replacing any previous session with the same state
func (s *MemoryStateStore) Save(ctx context.Context, session *domain.OAuthSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	stored.ExpiresAt = stored.CreatedAt.Add(ttl)
	s.sessions[stored.State] = stored
	return nil
}

// Consume returns and removes the session. Expired sessions are removed and reported as absent.
func (s *MemoryStateStore) Consume(ctx context.Context, state string) (*domain.OAuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[state]
	if !ok {
		return nil, nil
	}
	delete(s.sessions, state)

	if session.Expired(s.now()) {
		return nil, nil
	}
	return &session, nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *MemoryStateStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *MemoryStateStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStateStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for state, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, state)
		}
	}
}

var _ ports.StateStore = (*MemoryStateStore)(nil)
