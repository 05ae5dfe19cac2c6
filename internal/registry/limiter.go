// Package registry implements the ingestion core: per-origin admission
// windows, payload validation, export sanitization, and the keyed in-memory
// presence store.
package registry

import (
	"sync"
	"time"
)

// window tracks request volume from a single origin.
type window struct {
	start time.Time
	count int
}

// Limiter admits or rejects requests per origin over a fixed time window.
// Every request advances the counter, rejected ones included, so a client
// hammering past the limit stays rejected until its window elapses.
type Limiter struct {
	windows map[string]*window
	span    time.Duration
	max     int
	mu      sync.Mutex
}

// NewLimiter creates a limiter allowing maxRequests per origin within span.
func NewLimiter(maxRequests int, span time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		max:     maxRequests,
		span:    span,
	}
}

// Admit reports whether a request from origin should be accepted at now.
// The first request from an unseen origin always passes, as does the first
// request after the origin's window has elapsed.
func (l *Limiter) Admit(origin string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[origin]
	if !ok || now.Sub(w.start) > l.span {
		l.windows[origin] = &window{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= l.max
}

// SweepBefore drops windows that started before cutoff and returns how many
// were removed. Elapsed windows reset on the next request anyway, so this
// only reclaims memory held by origins that stopped reporting.
func (l *Limiter) SweepBefore(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for origin, w := range l.windows {
		if w.start.Before(cutoff) {
			delete(l.windows, origin)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked origins.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.windows)
}
