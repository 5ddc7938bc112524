package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store manages per-client limiters and discards the ones that go idle.
type Store struct {
	limiters        map[string]*Limiter
	rate            Rate
	cleanupInterval time.Duration
	mu              sync.RWMutex
}

// NewStore creates a limiter store. A background routine discards limiters
// that have been idle for longer than the cleanup interval.
func NewStore(rate Rate, cleanupInterval time.Duration) *Store {
	store := &Store{
		limiters:        make(map[string]*Limiter),
		rate:            rate,
		cleanupInterval: cleanupInterval,
	}

	go store.cleanupRoutine()

	return store
}

// GetLimiter returns the rate limiter for a client, creating one on first
// sight.
func (s *Store) GetLimiter(clientID string) *Limiter {
	s.mu.RLock()
	limiter, exists := s.limiters[clientID]
	s.mu.RUnlock()

	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have created it between the locks.
	if limiter, exists = s.limiters[clientID]; exists {
		return limiter
	}

	limiter = NewLimiter(s.rate.RequestsPerSecond, s.rate.Burst)
	s.limiters[clientID] = limiter
	return limiter
}

// Allow is a convenience wrapper combining lookup and consumption
func (s *Store) Allow(clientID string) bool {
	return s.GetLimiter(clientID).Allow()
}

// cleanupRoutine periodically removes idle limiters so one-time clients
// do not accumulate forever.
func (s *Store) cleanupRoutine() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

func (s *Store) cleanup() {
	cutoff := time.Now().Add(-s.cleanupInterval)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for clientID, limiter := range s.limiters {
		if limiter.LastAccess().Before(cutoff) {
			delete(s.limiters, clientID)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().
			Int("removed", removed).
			Int("remaining", len(s.limiters)).
			Msg("Idle rate limiters discarded")
	}
}
