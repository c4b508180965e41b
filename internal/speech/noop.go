package speech

import "github.com/charmbracelet/log"

// Compile-time interface check.
var _ Engine = (*NoOp)(nil)

// NoOp is an engine for platforms without speech synthesis. It is never
// available, so callers fall back to their visible channel.
type NoOp struct{}

// NewNoOp creates a no-op engine.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Speak reports ErrUnavailable.
func (n *NoOp) Speak(u Utterance, done func(error)) error {
	log.Debug("speech no-op: would say", "text", u.Text)
	return ErrUnavailable
}

// Cancel does nothing.
func (n *NoOp) Cancel() {}

// IsAvailable always returns false.
func (n *NoOp) IsAvailable() bool {
	return false
}
