package cache

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterEntry tracks one client's limiter and when it was last used
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterStore is a thread-safe store of per-client rate limiters with
// idle expiry, so abandoned clients do not leak limiters.
type LimiterStore struct {
	data    map[string]*limiterEntry
	mutex   sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

// NewLimiterStore creates a store where each client is allowed
// perMinute requests with a matching burst.
func NewLimiterStore(perMinute int) *LimiterStore {
	if perMinute <= 0 {
		perMinute = 60
	}

	store := &LimiterStore{
		data:    make(map[string]*limiterEntry),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
		idleTTL: 10 * time.Minute,
	}

	// Drop idle clients every few minutes
	go store.cleanupIdle()

	return store
}

// Allow reports whether the client identified by key may proceed.
func (s *LimiterStore) Allow(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.data[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.data[key] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// Size returns the current number of tracked clients (for debugging/monitoring)
func (s *LimiterStore) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.data)
}

// Clear removes all tracked clients
func (s *LimiterStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string]*limiterEntry)
}

// cleanupIdle removes clients that have not been seen within the idle TTL
func (s *LimiterStore) cleanupIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		cutoff := time.Now().Add(-s.idleTTL)
		for key, entry := range s.data {
			if entry.lastSeen.Before(cutoff) {
				delete(s.data, key)
			}
		}
		s.mutex.Unlock()
	}
}
