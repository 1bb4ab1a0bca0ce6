package registry

import (
	"sync"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
)

// Feed is the session-level append-only event log. The dashboard's
// event pane compiles its snapshot on every render pass; because the
// log only grows, (id, length) identifies a snapshot exactly.
type Feed struct {
	id       string
	mu       sync.RWMutex
	events   []domain.Event
	onAppend func(total int)
}

// NewFeed creates an empty feed with a fresh identity. The id keys
// render caches, so two feeds never share cached lines.
func NewFeed() *Feed {
	return &Feed{id: domain.NewUUID()}
}

// ID returns the feed's identity.
func (f *Feed) ID() string { return f.id }

// OnAppend registers the change callback. It runs on the appending
// goroutine with the new total length.
func (f *Feed) OnAppend(fn func(total int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onAppend = fn
}

// Append adds one event and fires the callback.
func (f *Feed) Append(ev domain.Event) {
	f.mu.Lock()
	f.events = append(f.events, ev)
	n := len(f.events)
	fn := f.onAppend
	f.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// Snapshot returns the current log. The slice shares its backing array
// with the feed; callers treat it as read-only.
func (f *Feed) Snapshot() []domain.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.events
}

// Len returns the current log length.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.events)
}
