package runtime

import (
	"fmt"

	"github.com/inclove/inclove/internal/announce"
	"github.com/inclove/inclove/internal/voice"
)

// Config holds the tunable runtime policy.
type Config struct {
	Announce announce.Config `mapstructure:"announce"`
	Voice    voice.Config    `mapstructure:"voice"`
}

// DefaultConfig returns the default policy.
func DefaultConfig() Config {
	return Config{
		Announce: announce.DefaultConfig(),
		Voice:    voice.DefaultConfig(),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Announce.Validate(); err != nil {
		return fmt.Errorf("announce: %w", err)
	}
	if err := c.Voice.Validate(); err != nil {
		return fmt.Errorf("voice: %w", err)
	}
	return nil
}
