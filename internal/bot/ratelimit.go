package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userLimiter applies a hard rate limit per Discord user ID.
type userLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	count   int
	window  time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newUserLimiter(count int, window time.Duration) *userLimiter {
	if count < 1 {
		count = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &userLimiter{
		clients: make(map[string]*limiterEntry),
		count:   count,
		window:  window,
	}
}

// Allow reports whether the user may run another command right now.
func (l *userLimiter) Allow(userID string) bool {
	l.mu.Lock()
	entry, found := l.clients[userID]
	if !found {
		limit := rate.Limit(float64(l.count) / l.window.Seconds())
		entry = &limiterEntry{limiter: rate.NewLimiter(limit, l.count)}
		l.clients[userID] = entry
	}
	entry.lastSeen = time.Now()
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// gc drops limiter state for users not seen for a while.
func (l *userLimiter) gc(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for id, entry := range l.clients {
				if now.Sub(entry.lastSeen) > 10*time.Minute {
					delete(l.clients, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
