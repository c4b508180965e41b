package announce

import (
	"sync"
	"time"
)

// LiveRegion is the visible announcement channel.
type LiveRegion interface {
	SetText(text string)
}

// LiveRegionFunc adapts a function to LiveRegion.
type LiveRegionFunc func(text string)

// SetText calls f(text).
func (f LiveRegionFunc) SetText(text string) { f(text) }

// Region is a LiveRegion that remembers what it displayed.
type Region struct {
	mu      sync.RWMutex
	text    string
	updated time.Time
	history []string
}

// SetText replaces the visible text.
func (r *Region) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = text
	r.updated = time.Now()
	r.history = append(r.history, text)
}

// Text returns the current text.
func (r *Region) Text() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.text
}

// Updated returns when the text last changed.
func (r *Region) Updated() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updated
}

// History returns every text shown so far, oldest first.
func (r *Region) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
