//go:build !nocgo

package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process.
var (
	contextOnce sync.Once
	otoContext  *oto.Context
	otoFormat   Format
	contextErr  error
)

const pollInterval = 20 * time.Millisecond

// Player plays PCM16 buffers. One buffer plays at a time; a new Play stops
// the previous one.
type Player struct {
	format Format

	mu      sync.Mutex
	current *oto.Player
}

// NewPlayer opens the audio output for format f.
func NewPlayer(f Format) (*Player, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}

	contextOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   f.SampleRate,
			ChannelCount: f.Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoContext, ready, contextErr = oto.NewContext(op)
		if contextErr == nil {
			<-ready
			otoFormat = f
			log.Debug("Audio context ready", "sampleRate", f.SampleRate, "channels", f.Channels)
		}
	})
	if contextErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, contextErr)
	}
	if otoFormat != f {
		return nil, fmt.Errorf("audio context already opened with %+v", otoFormat)
	}
	return &Player{format: f}, nil
}

// Play plays pcm at volume (0 to 1) and blocks until playback ends or ctx is
// canceled.
func (p *Player) Play(ctx context.Context, pcm []byte, volume float64) error {
	if len(pcm) == 0 {
		return errors.New("audio data is empty")
	}

	// own the buffer: oto reads from it after Play returns control
	data := make([]byte, len(pcm))
	copy(data, pcm)

	player := otoContext.NewPlayer(bytes.NewReader(data))
	player.SetVolume(volume)

	p.mu.Lock()
	if p.current != nil {
		p.current.Pause()
		_ = p.current.Close()
	}
	p.current = player
	p.mu.Unlock()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	defer p.release(player)

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	if err := player.Err(); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

func (p *Player) release(player *oto.Player) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == player {
		p.current = nil
	}
	_ = player.Close()
}
