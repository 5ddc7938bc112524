// Package ratelimit implements a token bucket rate limiter used to slow
// down password guessing on the login route.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket for a single client identity. Tokens refill at
// a fixed rate; each request consumes one.
type Limiter struct {
	tokens     float64
	lastTime   time.Time
	lastAccess time.Time
	rate       float64
	capacity   float64
	mu         sync.Mutex
}

// Rate controls how many requests per second are allowed
type Rate struct {
	// RequestsPerSecond defines how many tokens are added per second
	RequestsPerSecond float64

	// Burst defines the maximum size of the token bucket
	Burst int
}

// NewLimiter creates a new rate limiter with the specified refill rate and
// burst capacity.
func NewLimiter(rate float64, burst int) *Limiter {
	now := time.Now()
	return &Limiter{
		tokens:     float64(burst),
		lastTime:   now,
		lastAccess: now,
		rate:       rate,
		capacity:   float64(burst),
	}
}

// Allow reports whether a request fits within the rate limit, consuming a
// token when it does.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastTime).Seconds()
	l.lastTime = now
	l.lastAccess = now

	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}

	if l.tokens < 1 {
		return false
	}

	l.tokens--
	return true
}

// LastAccess returns when the limiter was last consulted. The store uses
// this to discard idle limiters.
func (l *Limiter) LastAccess() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastAccess
}

// ResetTokens refills the bucket. Useful in tests.
func (l *Limiter) ResetTokens() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens = l.capacity
	l.lastTime = time.Now()
}
