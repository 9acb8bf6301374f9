package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grecsai/grecs/internal/study"
)

// Entry is one completed study request. Entries are immutable once
// recorded.
type Entry struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Mode      study.Mode `json:"mode"`
	Input     string     `json:"input"`
	Response  string     `json:"response"`
}

// Archiver receives a copy of every recorded entry, e.g. to persist it.
type Archiver interface {
	ArchiveEntry(ctx context.Context, e Entry) error
}

// ArchiveErrorFunc is called when an Archiver fails. Archive failures
// never reach the caller of Record.
type ArchiveErrorFunc func(err error)

// Ledger is an append-only, newest-first record of study requests.
// It has no capacity bound.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time

	archiver Archiver
	onError  ArchiveErrorFunc
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithArchiver sends every recorded entry to a.
func WithArchiver(a Archiver, onError ArchiveErrorFunc) Option {
	return func(l *Ledger) {
		l.archiver = a
		l.onError = onError
	}
}

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates an empty Ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record inserts a new entry at the head of the ledger and returns it.
func (l *Ledger) Record(ctx context.Context, mode study.Mode, input, response string) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Mode:      mode,
		Input:     input,
		Response:  response,
	}

	l.mu.Lock()
	l.entries = append(l.entries, Entry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = e
	l.mu.Unlock()

	if l.archiver != nil {
		if err := l.archiver.ArchiveEntry(ctx, e); err != nil && l.onError != nil {
			l.onError(err)
		}
	}
	return e
}

// List returns all entries, newest first. The returned slice is a copy.
func (l *Ledger) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Find returns the entry with the given ID.
func (l *Ledger) Find(id string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
