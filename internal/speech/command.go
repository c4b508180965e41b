package speech

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// Compile-time interface check.
var _ Engine = (*Command)(nil)

// espeak-ng defaults.
const (
	baseWordsPerMinute = 175
	basePitch          = 50
	baseAmplitude      = 100
)

// CommandConfig configures a subprocess synthesizer with espeak-ng style flags.
type CommandConfig struct {
	Binary string `mapstructure:"binary"`
}

// Command speaks by running an external synthesizer such as espeak-ng. Each
// utterance is one process; canceling kills it.
type Command struct {
	binary string

	mu     sync.Mutex
	cancel context.CancelFunc

	availOnce sync.Once
	avail     bool
}

// NewCommand creates a subprocess engine. An empty binary uses espeak-ng.
func NewCommand(cfg CommandConfig) *Command {
	binary := cfg.Binary
	if binary == "" {
		binary = "espeak-ng"
	}
	return &Command{binary: binary}
}

// IsAvailable reports whether the binary can be found in PATH.
func (c *Command) IsAvailable() bool {
	c.availOnce.Do(func() {
		_, err := exec.LookPath(c.binary)
		c.avail = err == nil
		if err != nil {
			log.Debug("Speech command not found", "binary", c.binary, "error", err)
		}
	})
	return c.avail
}

// Speak runs the synthesizer for u in the background.
func (c *Command) Speak(u Utterance, done func(error)) error {
	if !c.IsAvailable() {
		return ErrUnavailable
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, c.binary, commandArgs(u)...) //nolint:gosec

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.mu.Unlock()

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("unable to start %s: %w", c.binary, err)
	}

	go func() {
		err := cmd.Wait()
		if ctx.Err() != nil {
			err = ErrCanceled
		} else if err != nil {
			err = fmt.Errorf("%s failed: %w", c.binary, err)
		}
		cancel()
		if done != nil {
			done(err)
		}
	}()
	return nil
}

// Cancel kills the running synthesizer, if any.
func (c *Command) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// commandArgs maps a voice onto espeak-ng flags: -s words per minute,
// -p pitch 0-99 and -a amplitude 0-200.
func commandArgs(u Utterance) []string {
	v := u.Voice
	wpm := int(math.Round(baseWordsPerMinute * v.Rate))
	pitch := clampInt(int(math.Round(basePitch*v.Pitch)), 0, 99)
	amp := clampInt(int(math.Round(baseAmplitude*2*v.Volume)), 0, 200)
	return []string{
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(pitch),
		"-a", strconv.Itoa(amp),
		"--", u.Text,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsCanceled reports whether err marks a canceled utterance.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}
