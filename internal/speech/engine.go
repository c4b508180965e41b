// Package speech adapts platform speech synthesis to a small capability
// interface. The announcement queue is the only caller.
package speech

import (
	"errors"
	"fmt"
)

// Voice parameter bounds. Values outside keep speech unintelligible.
const (
	MinRate   = 0.5
	MaxRate   = 2.0
	MinPitch  = 0.0
	MaxPitch  = 2.0
	MinVolume = 0.0
	MaxVolume = 1.0
)

var (
	// ErrUnavailable is returned by engines that cannot speak on this platform.
	ErrUnavailable = errors.New("speech synthesis unavailable")

	// ErrCanceled is passed to done callbacks of utterances that were cut off.
	ErrCanceled = errors.New("utterance canceled")
)

// Engine is the speech synthesis capability.
type Engine interface {
	// Speak starts speaking u and returns immediately. done is called
	// exactly once, from any goroutine, when the utterance finishes, fails or
	// is canceled.
	Speak(u Utterance, done func(error)) error

	// Cancel stops every in-flight utterance.
	Cancel()

	// IsAvailable reports whether Speak can produce audio.
	IsAvailable() bool
}

// Voice holds the per-utterance synthesis parameters.
type Voice struct {
	Rate   float64 `mapstructure:"rate"`
	Pitch  float64 `mapstructure:"pitch"`
	Volume float64 `mapstructure:"volume"`
}

// DefaultVoice returns the default narration voice.
func DefaultVoice() Voice {
	return Voice{Rate: 1.0, Pitch: 1.0, Volume: 0.8}
}

// Validate checks that every parameter is within intelligible bounds.
func (v Voice) Validate() error {
	if v.Rate < MinRate || v.Rate > MaxRate {
		return fmt.Errorf("rate must be between %.1f and %.1f, got %.2f", MinRate, MaxRate, v.Rate)
	}
	if v.Pitch < MinPitch || v.Pitch > MaxPitch {
		return fmt.Errorf("pitch must be between %.1f and %.1f, got %.2f", MinPitch, MaxPitch, v.Pitch)
	}
	if v.Volume < MinVolume || v.Volume > MaxVolume {
		return fmt.Errorf("volume must be between %.1f and %.1f, got %.2f", MinVolume, MaxVolume, v.Volume)
	}
	return nil
}

// Utterance is one unit of speech output.
type Utterance struct {
	ID    string
	Text  string
	Voice Voice
}
