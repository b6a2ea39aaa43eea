package cache

import (
	"context"
	"sync"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const defaultSweepInterval = time.Minute

type memoryClaim struct {
	token  string
	expiry time.Time
}

// MemoryClaimStore keeps snapshot generation claims in process memory.
// Claims are not shared between replicas.
type MemoryClaimStore struct {
	mu     sync.Mutex
	claims map[string]memoryClaim
	now    func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryClaimStore starts a store whose expired claims are swept every interval.
// A non-positive interval uses one minute.
func NewMemoryClaimStore(interval time.Duration) *MemoryClaimStore {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	s := &MemoryClaimStore{
		claims: make(map[string]memoryClaim),
		now:    time.Now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.sweepLoop(interval)
	return s
}

func (s *MemoryClaimStore) Claim(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, ok := s.claims[key]; ok && now.Before(c.expiry) {
		return "", false, nil
	}
	token := uuid.NewString()
	s.claims[key] = memoryClaim{token: token, expiry: now.Add(ttl)}
	return token, true, nil
}

func (s *MemoryClaimStore) Release(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.claims[key]; ok && c.token == token {
		delete(s.claims, key)
	}
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryClaimStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

// Len returns the number of stored claims, expired ones included.
func (s *MemoryClaimStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims)
}

func (s *MemoryClaimStore) sweepLoop(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryClaimStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, c := range s.claims {
		if !now.Before(c.expiry) {
			delete(s.claims, key)
		}
	}
}

var _ shared.IdempotencyStore = (*MemoryClaimStore)(nil)
