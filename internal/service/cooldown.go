// Package service provides the sync guardrail and orchestration logic.
package service

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCooldownWindow is the minimum time between two admitted sync
// attempts for the same key.
const DefaultCooldownWindow = 60 * time.Second

// CooldownRejection describes a sync attempt made while its key is still
// inside the cooldown window.
type CooldownRejection struct {
	RetryAfter time.Duration
}

// Message returns a human-readable rejection with the whole seconds
// remaining, rounded up.
func (c *CooldownRejection) Message() string {
	secs := int64((c.RetryAfter + time.Second - 1) / time.Second)
	return fmt.Sprintf("sync is on cooldown, try again in %d seconds", secs)
}

// Governor throttles sync attempts against the shared external-API budget.
// It tracks one global last-sync timestamp and one per account. State lives
// in memory for the process lifetime; a restart resets all cooldowns.
type Governor struct {
	mu            sync.Mutex
	window        time.Duration
	lastSyncAll   time.Time
	lastByAccount map[string]time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewGovernor creates a Governor with the given cooldown window.
// A non-positive window falls back to DefaultCooldownWindow.
func NewGovernor(window time.Duration) *Governor {
	if window <= 0 {
		window = DefaultCooldownWindow
	}
	return &Governor{
		window:        window,
		lastByAccount: make(map[string]time.Time),
		now:           time.Now,
	}
}

// NewGovernorWithClock is NewGovernor with an injectable clock.
func NewGovernorWithClock(window time.Duration, now func() time.Time) *Governor {
	g := NewGovernor(window)
	if now != nil {
		g.now = now
	}
	return g
}

// Check reports whether a sync for the given key may proceed. An empty
// accountID addresses the global sync-all slot. Check is read-only: a
// rejected request never touches the timestamps. Per-account and global
// slots are independent.
func (g *Governor) Check(accountID string) *CooldownRejection {
	g.mu.Lock()
	defer g.mu.Unlock()

	last := g.lastSyncAll
	if accountID != "" {
		last = g.lastByAccount[accountID]
	}

	if last.IsZero() {
		return nil
	}

	elapsed := g.now().Sub(last)
	if elapsed >= g.window {
		return nil
	}

	return &CooldownRejection{RetryAfter: g.window - elapsed}
}

// Record overwrites the key's last-sync timestamp with the current time.
// Call it only after the sync attempt is admitted and dispatched, never for
// a rejected request, so invalid retries cannot reset the window.
func (g *Governor) Record(accountID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if accountID == "" {
		g.lastSyncAll = g.now()
		return
	}
	g.lastByAccount[accountID] = g.now()
}
