package validation

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter per client
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	clients     map[string]*clientLimiter
	mu          sync.RWMutex
	cleanupTick *time.Ticker
	done        chan struct{}
}

// clientLimiter tracks rate limiting state for a single client
type clientLimiter struct {
	tokens     int
	lastRefill time.Time
	maxTokens  int
	window     time.Duration
	mu         sync.Mutex
}

// NewRateLimiter creates a new rate limiter with specified limits
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		clients:     make(map[string]*clientLimiter),
		done:        make(chan struct{}),
	}

	// Start cleanup goroutine to remove inactive clients
	rl.cleanupTick = time.NewTicker(window)
	go rl.cleanup()

	return rl
}

// Allow checks if a request should be allowed for the given client ID
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.RLock()
	limiter, exists := rl.clients[clientID]
	rl.mu.RUnlock()

	if !exists {
		limiter = &clientLimiter{
			tokens:     rl.maxRequests,
			lastRefill: time.Now(),
			maxTokens:  rl.maxRequests,
			window:     rl.window,
		}
		rl.mu.Lock()
		rl.clients[clientID] = limiter
		rl.mu.Unlock()
	}

	return limiter.allow()
}

// allow consumes a token if available, refilling the bucket once per window.
func (cl *clientLimiter) allow() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	if now.Sub(cl.lastRefill) >= cl.window {
		cl.tokens = cl.maxTokens
		cl.lastRefill = now
	}

	if cl.tokens <= 0 {
		return false
	}
	cl.tokens--
	return true
}

// cleanup periodically drops limiters that have fully refilled, so idle
// clients do not accumulate.
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanupTick.C:
			cutoff := time.Now().Add(-2 * rl.window)
			rl.mu.Lock()
			for id, limiter := range rl.clients {
				limiter.mu.Lock()
				stale := limiter.lastRefill.Before(cutoff)
				limiter.mu.Unlock()
				if stale {
					delete(rl.clients, id)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine
func (rl *RateLimiter) Close() {
	rl.cleanupTick.Stop()
	close(rl.done)
}
