package voice

import "context"

// Handler receives recognizer events for one listening session.
type Handler interface {
	// Result delivers a transcript. Interim results have final=false.
	Result(transcript string, final bool)
	// Error reports a transient recognition failure.
	Error(err error)
	// End reports that the session stopped on its own.
	End()
}

// Recognizer is the speech recognition capability.
type Recognizer interface {
	// Start begins a continuous listening session that reports to h until
	// Stop is called or the session ends. It must not block.
	Start(ctx context.Context, h Handler) error
	// Stop ends the current session. Events from it may still arrive.
	Stop()
	// IsAvailable reports whether recognition is possible on this platform.
	IsAvailable() bool
}

// Unavailable is a Recognizer for platforms without speech recognition.
type Unavailable struct{}

func (Unavailable) Start(context.Context, Handler) error { return ErrUnavailable }
func (Unavailable) Stop() {}
func (Unavailable) IsAvailable() bool { return false }
