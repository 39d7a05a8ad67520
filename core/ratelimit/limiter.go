package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	idleExpiry = 30 * time.Minute
	pruneEvery = 256
)

type record struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter throttles commands per sender with a token bucket refilled at
// perMinute tokens per minute and a burst of perMinute.
type Limiter struct {
	mu        sync.Mutex
	perMinute int
	records   map[string]*record
	calls     int
	now       func() time.Time
}

// New creates a limiter. A perMinute of zero or less disables throttling.
func New(perMinute int) *Limiter {
	return &Limiter{
		perMinute: perMinute,
		records:   make(map[string]*record),
		now:       time.Now,
	}
}

// Enabled reports whether the limiter throttles at all.
func (l *Limiter) Enabled() bool {
	return l != nil && l.perMinute > 0
}

// Allow consumes one token for sender and reports whether the command may run.
func (l *Limiter) Allow(sender string) bool {
	if !l.Enabled() {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	l.calls++
	if l.calls%pruneEvery == 0 {
		l.pruneLocked(now)
	}

	r := l.records[sender]
	if r == nil {
		every := time.Minute / time.Duration(l.perMinute)
		r = &record{limiter: rate.NewLimiter(rate.Every(every), l.perMinute)}
		l.records[sender] = r
	}
	r.lastSeen = now
	return r.limiter.AllowN(now, 1)
}

// pruneLocked drops senders idle for longer than idleExpiry. Must be called with mu held.
func (l *Limiter) pruneLocked(now time.Time) {
	for sender, r := range l.records {
		if now.Sub(r.lastSeen) > idleExpiry {
			delete(l.records, sender)
		}
	}
}
