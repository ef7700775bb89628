// Package recent keeps the recent-files ledger: the most recently opened
// or created file names, newest first, deduplicated and capped.
package recent

import (
	"sync"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("codestudio/recent")

// Limit is the maximum number of names kept.
const Limit = 10

// Store persists the ledger as a whole.
type Store interface {
	Load() ([]string, error)
	Save(names []string) error
}

// Ledger is the in-memory ledger backed by a Store. It is safe for
// concurrent use.
type Ledger struct {
	mu    sync.Mutex
	names []string
	store Store

	subs    map[int]func([]string)
	nextSub int
}

// New creates an empty ledger. Call Load to read the persisted state.
func New(store Store) *Ledger {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Ledger{store: store, subs: make(map[int]func([]string))}
}

// Load replaces the ledger with the persisted sequence. A missing or
// unreadable store yields an empty ledger.
func (l *Ledger) Load() {
	names, err := l.store.Load()
	if err != nil {
		log.Warnf("load recent files: %v", err)
		names = nil
	}
	l.replace(normalize(names))
}

// Record moves name to the front (inserting it if new), truncates to
// Limit and persists. Save failures are logged, never returned.
func (l *Ledger) Record(name string) {
	if name == "" {
		return
	}

	l.mu.Lock()
	next := make([]string, 0, Limit)
	next = append(next, name)
	for _, n := range l.names {
		if n != name && len(next) < Limit {
			next = append(next, n)
		}
	}
	l.names = next
	snap := l.snapshotLocked()
	subs := l.subscribersLocked()
	l.mu.Unlock()

	if err := l.store.Save(snap); err != nil {
		log.Errorf("save recent files: %v", err)
	}
	for _, fn := range subs {
		fn(snap)
	}
}

// Names returns the ledger, newest first.
func (l *Ledger) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Subscribe registers fn to receive the ledger after every change.
func (l *Ledger) Subscribe(fn func([]string)) (cancel func()) {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// replace swaps in names and notifies subscribers when they differ.
func (l *Ledger) replace(names []string) {
	l.mu.Lock()
	if equal(l.names, names) {
		l.mu.Unlock()
		return
	}
	l.names = names
	snap := l.snapshotLocked()
	subs := l.subscribersLocked()
	l.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (l *Ledger) snapshotLocked() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

func (l *Ledger) subscribersLocked() []func([]string) {
	out := make([]func([]string), 0, len(l.subs))
	for i := 0; i < l.nextSub; i++ {
		if fn, ok := l.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// normalize drops empty and repeated names and applies Limit.
func normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, Limit)
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		if len(out) == Limit {
			break
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
