// Package main provides the entry point for the inclove CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/inclove/inclove/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	style      string
	width      uint
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "inclove [explore|messages]",
		Short: "An accessible place to meet people, in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nMeet people %s. Narration, voice commands, high contrast, colorblind palettes and zoom follow you across every page.", keyword("on your own terms")),
		),
		Example:          paragraph("inclove\ninclove messages\ninclove --style light"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgs:        []string{"explore", "messages"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// validateStyle accepts "auto", a built-in glamour style, or a path to a
// style file that exists.
func validateStyle(name string) error {
	if name == styles.AutoStyle || styles.DefaultStyles[name] != nil {
		return nil
	}
	path, err := homedir.Expand(name)
	if err != nil {
		return fmt.Errorf("unable to expand style path: %w", err)
	}
	switch _, err := os.Stat(path); {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("no such style: %s", name)
	case err != nil:
		return fmt.Errorf("unable to stat style: %w", err)
	}
	return nil
}

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		// a missing file is created by the config command
		if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("unable to read %s: %w", configFile, err)
		}
	}

	width = viper.GetUint("width")
	mouse = viper.GetBool("mouse")
	style = viper.GetString("style")
	if err := validateStyle(style); err != nil {
		return err
	}
	if _, err := runtimeConfig(); err != nil {
		return err
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	// piped output gets the plain style unless one was asked for
	if !tty && !cmd.Flags().Changed("style") {
		style = styles.NoTTYStyle
	}
	if !cmd.Flags().Changed("width") {
		width = detectWidth(tty, width)
	}
	return nil
}

// detectWidth fills in the card width from the terminal, capped at 120
// columns, falling back to 80.
func detectWidth(tty bool, configured uint) uint {
	if configured > 0 {
		return configured
	}
	if tty {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return min(uint(w), 120) //nolint:gosec
		}
	}
	return 80
}

func execute(_ *cobra.Command, args []string) error {
	page := ""
	if len(args) > 0 {
		page = args[0]
	}
	if _, err := ui.ParsePage(page); err != nil {
		return err
	}
	return runTUI(page)
}

func runTUI(page string) error {
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("unable to read environment: %w", err)
	}

	// GLAMOUR_STYLE wins when it names a usable style
	if cfg.GlamourStyle == "" || validateStyle(cfg.GlamourStyle) != nil {
		cfg.GlamourStyle = style
	}
	cfg.Page = page
	cfg.GlamourMaxWidth = width
	cfg.EnableMouse = mouse

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bridge := ui.NewBridge()
	defer bridge.Close()
	a, err := newApp(ctx, bridge)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Shutdown", "error", err)
		}
	}()

	go func() {
		if err := a.rt.Watch(ctx, a.prefsPath); err != nil {
			log.Warn("Not watching preferences", "path", a.prefsPath, "error", err)
		}
	}()

	if _, err := ui.NewProgram(cfg, a.rt, bridge).Run(); err != nil {
		return fmt.Errorf("inclove exited: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	loadConfig()

	rootCmd.Version = Version
	if rootCmd.Version == "" {
		rootCmd.Version = "dev"
	}
	if len(CommitSHA) >= 7 {
		rootCmd.Version += " (" + CommitSHA[:7] + ")"
	}
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&style, "style", "s", styles.AutoStyle, "profile card style name or JSON path")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap profile cards at width")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "narrate what the mouse hovers")
	rootCmd.Flags().String("speech", "", "speech engine: auto, piper, command, gtts or none")
	rootCmd.Flags().String("prefs", "", "preference file (default in the user data dir)")

	for key, flag := range map[string]string{
		"style":            "style",
		"width":            "width",
		"mouse":            "mouse",
		"speech.engine":    "speech",
		"preferences.path": "prefs",
	} {
		_ = viper.BindPFlag(key, rootCmd.Flags().Lookup(flag))
	}

	viper.SetDefault("style", styles.AutoStyle)

	// Speech defaults
	viper.SetDefault("speech.engine", "auto")
	viper.SetDefault("speech.piper.binary", "piper")
	viper.SetDefault("speech.piper.timeout", "30s")
	viper.SetDefault("speech.command.binary", "espeak-ng")
	viper.SetDefault("speech.cache.dir", "")
	viper.SetDefault("speech.cache.max_size", 50)

	// Voice command defaults
	viper.SetDefault("voice.recognizer", "gcp")

	rootCmd.AddCommand(configCmd, manCmd, prefsCmd)
}

// configDirs lists where inclove.yml is looked for, most specific first.
func configDirs() []string {
	dirs, err := gap.NewScope(gap.User, "inclove").ConfigDirs()
	if err != nil {
		log.Warn("No user config directory", "error", err)
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "inclove")}, dirs...)
	}
	if c := os.Getenv("INCLOVE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs
}

// loadConfig reads inclove.yml and INCLOVE_* variables into viper, writing
// the default file on first run.
func loadConfig() {
	dirs := configDirs()
	for _, d := range dirs {
		viper.AddConfigPath(d)
	}
	viper.SetConfigName("inclove")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("inclove")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		log.Debug("Loaded configuration", "path", viper.ConfigFileUsed())
		return
	case !errors.As(err, &notFound):
		log.Warn("Ignoring unreadable configuration", "error", err)
		return
	case len(dirs) == 0:
		return
	}

	configFile = filepath.Join(dirs[0], "inclove.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not write default configuration", "path", configFile, "error", err)
	}
}
