//go:build nocgo

package audio

import "context"

// Player is unavailable in nocgo builds.
type Player struct{}

// NewPlayer always fails in nocgo builds.
func NewPlayer(f Format) (*Player, error) {
	return nil, ErrUnavailable
}

// Play always fails in nocgo builds.
func (p *Player) Play(ctx context.Context, pcm []byte, volume float64) error {
	return ErrUnavailable
}
