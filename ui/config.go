package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Page shown at startup: "explore" or "messages".
	Page            string
	GlamourMaxWidth uint
	GlamourStyle    string `env:"GLAMOUR_STYLE"`
	EnableMouse     bool

	// For debugging the UI
	GlamourEnabled bool `env:"INCLOVE_ENABLE_GLAMOUR" envDefault:"true"`
	AltScreen      bool `env:"INCLOVE_ALT_SCREEN"     envDefault:"true"`
}
