// Package mock provides a scriptable speech recognizer for testing.
package mock

import (
	"context"
	"sync"

	"github.com/inclove/inclove/internal/voice"
)

// Compile-time interface check.
var _ voice.Recognizer = (*Recognizer)(nil)

// Recognizer records sessions and lets tests emit recognizer events.
type Recognizer struct {
	mu sync.Mutex

	available bool
	startErr  error

	handlers []voice.Handler
	starts   int
	stops    int
}

// New creates an available recognizer.
func New() *Recognizer {
	return &Recognizer{available: true}
}

// SetAvailable controls IsAvailable.
func (r *Recognizer) SetAvailable(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available = available
}

// SetStartError makes Start fail with err.
func (r *Recognizer) SetStartError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startErr = err
}

// IsAvailable reports the configured availability.
func (r *Recognizer) IsAvailable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.available
}

// Start records h as the newest session.
func (r *Recognizer) Start(_ context.Context, h voice.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts++
	if r.startErr != nil {
		return r.startErr
	}
	r.handlers = append(r.handlers, h)
	return nil
}

// Stop counts the call.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
}

// Starts returns how many sessions were started.
func (r *Recognizer) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

// Stops returns how many times Stop was called.
func (r *Recognizer) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}

// Session returns the handler of session i (0 is the first).
func (r *Recognizer) Session(i int) voice.Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.handlers) {
		return nil
	}
	return r.handlers[i]
}

func (r *Recognizer) latest() voice.Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.handlers) == 0 {
		return nil
	}
	return r.handlers[len(r.handlers)-1]
}

// Say delivers a final transcript to the newest session.
func (r *Recognizer) Say(transcript string) {
	if h := r.latest(); h != nil {
		h.Result(transcript, true)
	}
}

// Hear delivers an interim transcript to the newest session.
func (r *Recognizer) Hear(transcript string) {
	if h := r.latest(); h != nil {
		h.Result(transcript, false)
	}
}

// Fail reports err on the newest session.
func (r *Recognizer) Fail(err error) {
	if h := r.latest(); h != nil {
		h.Error(err)
	}
}

// End ends the newest session.
func (r *Recognizer) End() {
	if h := r.latest(); h != nil {
		h.End()
	}
}
