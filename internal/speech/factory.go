package speech

import (
	"github.com/charmbracelet/log"
	"github.com/inclove/inclove/internal/a11y"
)

// Engine names accepted by New.
const (
	EngineAuto    = "auto"
	EnginePiper   = "piper"
	EngineCommand = "command"
	EngineGTTS    = "gtts"
	EngineNone    = "none"
)

// Config selects and configures the synthesis engine.
type Config struct {
	Engine  string        `mapstructure:"engine"`
	Piper   PiperConfig   `mapstructure:"piper"`
	Command CommandConfig `mapstructure:"command"`
	GTTS    GTTSConfig    `mapstructure:"gtts"`
}

// PlayerFactory opens an audio output for PCM16 mono at sampleRate.
type PlayerFactory func(sampleRate int) (Player, error)

// New builds the configured engine. Any failure degrades to NoOp so that
// callers only ever lose the audible channel.
func New(cfg Config, players PlayerFactory, cache Cache) Engine {
	switch cfg.Engine {
	case EngineNone:
		return NewNoOp()
	case EnginePiper:
		e, err := newPiper(cfg, players, cache)
		if err != nil {
			warnUnavailable(EnginePiper, err)
			return NewNoOp()
		}
		return e
	case EngineGTTS:
		e, err := newGTTS(cfg, players, cache)
		if err != nil {
			warnUnavailable(EngineGTTS, err)
			return NewNoOp()
		}
		return e
	case EngineCommand:
		c := NewCommand(cfg.Command)
		if c.IsAvailable() {
			return c
		}
		warnUnavailable(EngineCommand, ErrUnavailable)
		return NewNoOp()
	default:
		if e, err := newPiper(cfg, players, cache); err == nil {
			log.Info("Speech engine selected", "engine", EnginePiper, "reason", "auto")
			return e
		}
		if c := NewCommand(cfg.Command); c.IsAvailable() {
			log.Info("Speech engine selected", "engine", EngineCommand, "reason", "auto")
			return c
		}
		warnUnavailable(EngineAuto, ErrUnavailable)
		return NewNoOp()
	}
}

func newPiper(cfg Config, players PlayerFactory, cache Cache) (*Piper, error) {
	if cfg.Piper.Model == "" {
		return nil, a11y.NewError(a11y.ErrorCodeCapabilityUnavailable, "piper model not configured", nil)
	}
	if players == nil {
		return nil, a11y.NewError(a11y.ErrorCodeCapabilityUnavailable, "no audio output", nil)
	}
	player, err := players(PiperSampleRate)
	if err != nil {
		return nil, a11y.NewError(a11y.ErrorCodeCapabilityUnavailable, "audio output", err)
	}
	return NewPiper(cfg.Piper, player, cache)
}

func newGTTS(cfg Config, players PlayerFactory, cache Cache) (*GTTS, error) {
	if players == nil {
		return nil, a11y.NewError(a11y.ErrorCodeCapabilityUnavailable, "no audio output", nil)
	}
	player, err := players(GTTSSampleRate)
	if err != nil {
		return nil, a11y.NewError(a11y.ErrorCodeCapabilityUnavailable, "audio output", err)
	}
	return NewGTTS(cfg.GTTS, player, cache)
}

func warnUnavailable(engine string, err error) {
	log.Warn("Speech synthesis unavailable, announcements will be visible only",
		"engine", engine, "error", err)
}
