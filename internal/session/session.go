package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/study"
)

// Context is the state owned by one user session: its history ledger,
// the last text submitted per mode, and whether the access gate was
// passed.
type Context struct {
	ID        string
	CreatedAt time.Time
	Ledger    *history.Ledger

	mu            sync.Mutex
	authenticated bool
	lastInput     map[study.Mode]string
	lastMode      study.Mode
	lastSeen      time.Time
}

// NewContext creates a standalone session context, e.g. for a CLI run.
func NewContext(opts ...history.Option) *Context {
	now := time.Now()
	return &Context{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Ledger:    history.NewLedger(opts...),
		lastInput: make(map[study.Mode]string),
		lastSeen:  now,
	}
}

// Authenticated reports whether the session passed the access gate.
func (c *Context) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// SetAuthenticated records the outcome of the access gate.
func (c *Context) SetAuthenticated(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticated = ok
}

// SetLastInput caches the text submitted for mode. Switching to a
// different mode clears the cache first.
func (c *Context) SetLastInput(mode study.Mode, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastMode != "" && c.lastMode != mode {
		c.lastInput = make(map[study.Mode]string)
	}
	c.lastMode = mode
	c.lastInput[mode] = text
}

// LastInput returns the cached text for mode.
func (c *Context) LastInput(mode study.Mode) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastInput[mode]
}

// ResetInputs clears the input cache. The ledger is not affected.
func (c *Context) ResetInputs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastInput = make(map[study.Mode]string)
}

func (c *Context) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Context) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}
