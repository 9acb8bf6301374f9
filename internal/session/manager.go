package session

import (
	"context"
	"sync"
	"time"

	"github.com/grecsai/grecs/internal/history"
)

// DefaultIdleTTL is how long an untouched session survives a Sweep.
const DefaultIdleTTL = 12 * time.Hour

// LedgerOptions returns the ledger options for a new session. It receives
// the session ID so an archiver can tag entries with it.
type LedgerOptions func(sessionID string) []history.Option

// Manager owns the live sessions of a multi-user deployment. A session is
// created on first visit, looked up on every request and torn down on
// logout or when it has been idle longer than the TTL.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*Context
	ttl        time.Duration
	now        func() time.Time
	ledgerOpts LedgerOptions
}

// NewManager creates a Manager. ledgerOpts may be nil.
func NewManager(ttl time.Duration, ledgerOpts LedgerOptions) *Manager {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Manager{
		sessions:   make(map[string]*Context),
		ttl:        ttl,
		now:        time.Now,
		ledgerOpts: ledgerOpts,
	}
}

// Create starts a new session.
func (m *Manager) Create() *Context {
	c := NewContext()
	if m.ledgerOpts != nil {
		c.Ledger = history.NewLedger(m.ledgerOpts(c.ID)...)
	}
	c.touch(m.now())

	m.mu.Lock()
	m.sessions[c.ID] = c
	m.mu.Unlock()
	return c
}

// Get returns the live session with the given ID and marks it as used.
func (m *Manager) Get(id string) (*Context, bool) {
	m.mu.Lock()
	c, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		c.touch(m.now())
	}
	return c, ok
}

// End tears down a session. Its ledger is dropped with it.
func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Sweep ends every session idle for longer than the TTL at now and
// returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, c := range m.sessions {
		if c.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(m.now()); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
