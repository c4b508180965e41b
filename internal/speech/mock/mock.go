// Package mock provides a scriptable speech engine for testing.
package mock

import (
	"sync"

	"github.com/inclove/inclove/internal/speech"
)

// Compile-time interface check.
var _ speech.Engine = (*Engine)(nil)

// Engine records every call and keeps utterances "speaking" until Finish or
// Cancel is called.
type Engine struct {
	mu sync.Mutex

	available bool
	failWith  error

	spoken   []speech.Utterance
	cancels  int
	inFlight map[string]func(error)
}

// New creates an available mock engine.
func New() *Engine {
	return &Engine{
		available: true,
		inFlight:  make(map[string]func(error)),
	}
}

// SetAvailable controls IsAvailable.
func (e *Engine) SetAvailable(available bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = available
}

// SetFailure makes every Speak call return err.
func (e *Engine) SetFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failWith = err
}

// IsAvailable reports the configured availability.
func (e *Engine) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// Speak records u and leaves it in flight.
func (e *Engine) Speak(u speech.Utterance, done func(error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failWith != nil {
		return e.failWith
	}
	e.spoken = append(e.spoken, u)
	if done == nil {
		done = func(error) {}
	}
	e.inFlight[u.ID] = done
	return nil
}

// Cancel ends every in-flight utterance with speech.ErrCanceled.
func (e *Engine) Cancel() {
	e.mu.Lock()
	e.cancels++
	pending := e.inFlight
	e.inFlight = make(map[string]func(error))
	e.mu.Unlock()

	for _, done := range pending {
		done(speech.ErrCanceled)
	}
}

// Finish completes the in-flight utterance with the given id.
func (e *Engine) Finish(id string) bool {
	e.mu.Lock()
	done, ok := e.inFlight[id]
	delete(e.inFlight, id)
	e.mu.Unlock()

	if ok {
		done(nil)
	}
	return ok
}

// FinishAll completes every in-flight utterance.
func (e *Engine) FinishAll() {
	e.mu.Lock()
	pending := e.inFlight
	e.inFlight = make(map[string]func(error))
	e.mu.Unlock()

	for _, done := range pending {
		done(nil)
	}
}

// Spoken returns a copy of every utterance passed to Speak.
func (e *Engine) Spoken() []speech.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]speech.Utterance, len(e.spoken))
	copy(out, e.spoken)
	return out
}

// Texts returns the text of every spoken utterance.
func (e *Engine) Texts() []string {
	spoken := e.Spoken()
	out := make([]string, len(spoken))
	for i, u := range spoken {
		out[i] = u.Text
	}
	return out
}

// Last returns the most recent utterance.
func (e *Engine) Last() (speech.Utterance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.spoken) == 0 {
		return speech.Utterance{}, false
	}
	return e.spoken[len(e.spoken)-1], true
}

// Cancels returns how many times Cancel was called.
func (e *Engine) Cancels() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancels
}

// InFlight returns the number of utterances still speaking.
func (e *Engine) InFlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inFlight)
}
