package httpapi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// limiterRegistry hands out one token bucket per client key. Each bucket
// refills at perSecond tokens per second with a burst of perSecond.
// Buckets not used for a while are dropped by Sweep; an idle bucket is
// full anyway, so a fresh one behaves the same.
type limiterRegistry struct {
	mu        sync.RWMutex
	limiters  map[string]*limiterEntry
	perSecond int
	now       func() time.Time
}

func newLimiterRegistry(perSecond int) *limiterRegistry {
	return &limiterRegistry{
		limiters:  make(map[string]*limiterEntry),
		perSecond: perSecond,
		now:       time.Now,
	}
}

// Get returns the limiter for key, creating it on first use.
func (r *limiterRegistry) Get(key string) *rate.Limiter {
	now := r.now().UnixNano()

	r.mu.RLock()
	e, exists := r.limiters[key]
	r.mu.RUnlock()
	if exists {
		e.lastSeen.Store(now)
		return e.limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, exists := r.limiters[key]; exists {
		e.lastSeen.Store(now)
		return e.limiter
	}

	e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.perSecond), r.perSecond)}
	e.lastSeen.Store(now)
	r.limiters[key] = e
	return e.limiter
}

// Sweep removes limiters unused for longer than idle and returns how many
// were removed.
func (r *limiterRegistry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, e := range r.limiters {
		if e.lastSeen.Load() < cutoff {
			delete(r.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (r *limiterRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}

// sweepEvery calls Sweep(idle) every interval until ctx is done.
func (r *limiterRegistry) sweepEvery(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}
