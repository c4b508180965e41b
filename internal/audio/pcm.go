package audio

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when no audio output can be opened.
var ErrUnavailable = errors.New("audio output unavailable")

// Format describes raw PCM16 audio.
type Format struct {
	SampleRate int
	Channels   int
}

// Validate checks the format.
func (f Format) Validate() error {
	if f.SampleRate < 8000 || f.SampleRate > 96000 {
		return fmt.Errorf("sample rate must be between 8000 and 96000 Hz, got %d", f.SampleRate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", f.Channels)
	}
	return nil
}

// Duration returns the playback length of pcm bytes in format f.
func (f Format) Duration(pcm []byte) time.Duration {
	frameSize := f.Channels * 2
	if frameSize == 0 || f.SampleRate == 0 {
		return 0
	}
	frames := len(pcm) / frameSize
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}
