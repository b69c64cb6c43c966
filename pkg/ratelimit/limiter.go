// Package ratelimit is a best-effort, process-local abuse guard: a fixed
// window counter per client IP. It is not an exact quota and is not shared
// between instances.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultMax    = 5
	DefaultWindow = 60 * time.Second
)

type entry struct {
	count       int
	windowStart time.Time
}

type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow counts one hit for key and reports whether it is still within max
// for the current window. A hit arriving more than window after the window
// started opens a new window.
func (l *Limiter) Allow(key string, max int, window time.Duration) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) > window {
		l.entries[key] = &entry{count: 1, windowStart: now}
		return 1 <= max
	}

	e.count++
	return e.count <= max
}

// Sweep drops every entry whose window is older than window and returns how
// many were removed.
func (l *Limiter) Sweep(window time.Duration) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if now.Sub(e.windowStart) > window {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked keys.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartJanitor sweeps expired windows every interval until stop is called.
func (l *Limiter) StartJanitor(interval, window time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Sweep(window)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
