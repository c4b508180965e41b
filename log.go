package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "inclove").CacheDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return filepath.Join(dir, "inclove.log"), nil
}

// setupLog sends the log to a file so it never draws over the TUI.
// INCLOVE_DEBUG turns on debug output.
func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.FatalLevel)

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		// log disabled
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	log.SetOutput(f)
	log.SetLevel(log.InfoLevel)
	if os.Getenv("INCLOVE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}
	return f.Close, nil
}
