package speech

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Compile-time interface check.
var _ Engine = (*Piper)(nil)

// PiperSampleRate is the rate of Piper's raw PCM16 mono output.
const PiperSampleRate = 22050

// Player plays raw PCM16 audio. Play blocks until playback ends or ctx is
// canceled.
type Player interface {
	Play(ctx context.Context, pcm []byte, volume float64) error
}

// Cache stores synthesized audio keyed by utterance content.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte) error
}

// PiperConfig configures the Piper engine.
type PiperConfig struct {
	Binary  string        `mapstructure:"binary"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Piper synthesizes with the piper binary and plays the result through a
// Player. Synthesized audio is cached, so repeated announcements such as
// "Screen reader enabled" start immediately.
type Piper struct {
	binary  string
	model   string
	timeout time.Duration
	player  Player
	cache   Cache

	run runner
}

// NewPiper creates a Piper engine. cache may be nil.
func NewPiper(cfg PiperConfig, player Player, cache Cache) (*Piper, error) {
	if player == nil {
		return nil, errors.New("player cannot be nil")
	}
	binary := cfg.Binary
	if binary == "" {
		binary = "piper"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("piper binary %q not found: %w", binary, err)
	}
	model, err := homedir.Expand(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("unable to expand model path: %w", err)
	}
	if _, err := os.Stat(model); err != nil {
		return nil, fmt.Errorf("piper model %q: %w", model, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Piper{
		binary:  path,
		model:   model,
		timeout: timeout,
		player:  player,
		cache:   cache,
	}, nil
}

// IsAvailable reports true; construction already verified binary and model.
func (p *Piper) IsAvailable() bool {
	return true
}

// Speak synthesizes and plays u in the background.
func (p *Piper) Speak(u Utterance, done func(error)) error {
	p.run.start(func(ctx context.Context) error { return p.speak(ctx, u) }, done)
	return nil
}

// Cancel stops synthesis and playback.
func (p *Piper) Cancel() {
	p.run.stop()
}

func (p *Piper) speak(ctx context.Context, u Utterance) error {
	return synthesizeAndPlay(ctx, "piper", cacheKey(u), p.cache, p.player, u.Voice.Volume,
		func(ctx context.Context) ([]byte, error) { return p.synthesize(ctx, u) })
}

func (p *Piper) synthesize(ctx context.Context, u Utterance) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary, //nolint:gosec
		"--model", p.model,
		"--output_raw",
		"--length_scale", lengthScale(u.Voice.Rate),
	)
	cmd.Stdin = strings.NewReader(u.Text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("piper failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, errors.New("piper produced no audio")
	}
	return stdout.Bytes(), nil
}

// lengthScale converts a rate multiplier into Piper's inverse length scale.
func lengthScale(rate float64) string {
	if rate <= 0 {
		rate = 1
	}
	return strconv.FormatFloat(1/rate, 'f', 2, 64)
}

// cacheKey identifies synthesized audio. Volume is applied at playback and
// Piper has no pitch control, so only text and rate matter.
func cacheKey(u Utterance) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("piper|%.2f|%s", u.Voice.Rate, u.Text)))
	return hex.EncodeToString(sum[:])
}
