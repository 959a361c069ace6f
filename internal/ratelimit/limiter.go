// Package ratelimit bounds secret creation with two process-local caps: a
// global leaky-bucket counter and a per-address cooldown window. State is
// deliberately not shared across instances.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Config struct {
	// GlobalLimit caps accepted creations; the counter leaks by one per
	// tick, approximating a sustained-rate window.
	GlobalLimit int

	// AddressWindow is how long an address must wait before creating
	// another secret.
	AddressWindow time.Duration

	// Tick is the maintenance interval: one global decrement plus a
	// prune of expired address entries.
	Tick time.Duration
}

func DefaultConfig() Config {
	return Config{
		GlobalLimit:   100,
		AddressWindow: 30 * time.Second,
		Tick:          5 * time.Second,
	}
}

type entry struct {
	addr       string
	validUntil time.Time
}

// Limiter tracks admission state. Address entries are kept in arrival
// order; since the window length is fixed, expiry times are non-decreasing
// along the queue and pruning can stop at the first entry still valid.
type Limiter struct {
	cfg Config

	mu     sync.Mutex
	global int
	index  map[string]struct{}
	queue  []entry
}

func New(cfg Config) *Limiter {
	return &Limiter{
		cfg:   cfg,
		index: make(map[string]struct{}),
	}
}

// Allow decides admission for one creation request from addr. On
// acceptance it records the address cooldown and bumps the global counter.
// Same-address races cannot both be admitted; the mutex serializes them.
func (l *Limiter) Allow(addr string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.global >= l.cfg.GlobalLimit {
		return false
	}
	if _, held := l.index[addr]; held {
		// still cooling down; stale entries linger at most one tick
		return false
	}

	l.index[addr] = struct{}{}
	l.queue = append(l.queue, entry{addr: addr, validUntil: now.Add(l.cfg.AddressWindow)})
	l.global++
	return true
}

// Tick leaks one unit of the global counter and prunes expired address
// entries from the front of the queue.
func (l *Limiter) Tick(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.global > 0 {
		l.global--
	}
	for len(l.queue) > 0 {
		e := l.queue[0]
		if e.validUntil.After(now) {
			break
		}
		delete(l.index, e.addr)
		l.queue = l.queue[1:]
	}
}

// Run drives the maintenance tick until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			l.Tick(now)
		}
	}
}
