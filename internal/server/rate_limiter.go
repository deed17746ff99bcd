package server

import (
	"sync"
	"time"
)

// triggerLimiter throttles manual billing triggers per caller. A fixed
// window is enough here: a billing run already refuses to start while
// another one is in flight, the limiter only keeps retry-happy clients
// from hammering the endpoint.
type triggerLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	byKey  map[string]*triggerWindow
}

type triggerWindow struct {
	start time.Time
	count int
}

func newTriggerLimiter(limit int, window time.Duration) *triggerLimiter {
	return &triggerLimiter{
		limit:  limit,
		window: window,
		byKey:  make(map[string]*triggerWindow),
	}
}

func (l *triggerLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := time.Now().UTC()
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.byKey[key]
	if w == nil || now.Sub(w.start) > l.window {
		l.prune(now)
		w = &triggerWindow{start: now}
		l.byKey[key] = w
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

// prune drops expired windows so the map does not grow with one entry
// per client IP ever seen. Called with the mutex held.
func (l *triggerLimiter) prune(now time.Time) {
	for key, w := range l.byKey {
		if now.Sub(w.start) > l.window {
			delete(l.byKey, key)
		}
	}
}
