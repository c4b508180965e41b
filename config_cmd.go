package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# profile card style name or JSON path (default "auto")
style: "auto"
# narrate what the mouse hovers
mouse: false
# word-wrap profile cards at width
width: 80

# where accessibility preferences are kept (default: user data dir)
# preferences:
#   path: "~/.local/share/inclove/preferences.json"

# Speech output
speech:
  # engine: auto, piper, command, gtts or none
  engine: "auto"
  piper:
    binary: "piper"
    # model: "~/voices/en_US-lessac-medium.onnx"
    timeout: "30s"
  command:
    binary: "espeak-ng"
  # online voice, needs gtts-cli and ffmpeg
  gtts:
    language: "en"
    slow: false
    requests_per_minute: 50
    timeout: "30s"
  cache:
    # dir: "~/.cache/inclove/speech"
    # size limit in megabytes
    max_size: 50

# Announcements
announce:
  # quiet period before typing is read back
  typing_debounce: "800ms"
  voice:
    rate: 1.0
    pitch: 1.0
    volume: 0.8

# Voice commands
voice:
  # recognizer: gcp or none
  recognizer: "gcp"
  locale: "en-US"
  # how long a heard command stays on screen
  revert_after: "2s"
  # pause between hearing a command and running it
  action_delay: "500ms"
  restart_every: "1s"
  restart_burst: 3
  gcp:
    # credentials_file: "~/.config/gcloud/inclove.json"
    sample_rate: 16000
    model: "command_and_search"
    # capture: ["arecord", "-q", "-t", "raw", "-f", "S16_LE", "-c", "1", "-r", "16000"]
`

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the inclove config file",
	Long:    paragraph(fmt.Sprintf("\n%s the inclove config file in $EDITOR. A commented default file is written first if there is none.", keyword("Edit"))),
	Example: paragraph("inclove config\ninclove config --config path/to/inclove.yml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Inclove", configFile)
		if err != nil {
			return fmt.Errorf("no editor for %s: %w", configFile, err)
		}
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("editor failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Saved", configFile)
		return nil
	},
}

// ensureConfigFile resolves configFile and writes defaultConfig there when
// nothing exists yet. An existing file is never touched.
func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.ConfigFileUsed()
	}
	if configFile == "" {
		return errors.New("no config file location")
	}
	switch ext := filepath.Ext(configFile); ext {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("%q is not a YAML file: use .yml or .yaml", configFile)
	}

	_, err := os.Stat(configFile)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to stat %s: %w", configFile, err)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("unable to write %s: %w", configFile, err)
	}
	log.Info("Wrote default configuration", "path", configFile)
	return nil
}
