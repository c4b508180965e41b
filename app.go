package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/inclove/inclove/internal/audio"
	"github.com/inclove/inclove/internal/cache"
	"github.com/inclove/inclove/internal/decor"
	"github.com/inclove/inclove/internal/prefs"
	"github.com/inclove/inclove/internal/runtime"
	"github.com/inclove/inclove/internal/speech"
	"github.com/inclove/inclove/internal/voice"
	"github.com/inclove/inclove/internal/voice/gcp"
	"github.com/inclove/inclove/ui"
)

// app is everything main wires together for one run.
type app struct {
	rt        *runtime.Runtime
	prefsPath string
	closers   []func() error
}

func (a *app) Close() error {
	var first error
	if a.rt != nil {
		first = a.rt.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// runtimeConfig reads the announce and voice sections.
func runtimeConfig() (runtime.Config, error) {
	cfg := runtime.DefaultConfig()
	if err := viper.UnmarshalKey("announce", &cfg.Announce); err != nil {
		return cfg, fmt.Errorf("unable to parse announce config: %w", err)
	}
	if err := viper.UnmarshalKey("voice", &cfg.Voice); err != nil {
		return cfg, fmt.Errorf("unable to parse voice config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the preference file from config or the data dir.
func openStore() (*prefs.Store, string, error) {
	path := viper.GetString("preferences.path")
	if path == "" {
		p, err := prefs.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	kv, err := prefs.NewFileKV(path)
	if err != nil {
		return nil, "", err
	}
	return prefs.NewStore(kv, prefs.DefaultKey), kv.Path(), nil
}

func newSpeechEngine() (speech.Engine, func() error) {
	var cfg speech.Config
	if err := viper.UnmarshalKey("speech", &cfg); err != nil {
		log.Warn("Could not parse speech config, using defaults", "error", err)
		cfg = speech.Config{Engine: speech.EngineAuto}
	}
	if model, err := homedir.Expand(cfg.Piper.Model); err == nil {
		cfg.Piper.Model = model
	}

	closer := func() error { return nil }
	var utterances speech.Cache
	if dir := cacheDir(); dir != "" {
		disk, err := cache.NewDisk(dir, viper.GetInt64("speech.cache.max_size")*1024*1024)
		if err != nil {
			log.Warn("Utterance cache disabled", "dir", dir, "error", err)
		} else {
			log.Debug("Utterance cache", "dir", dir, "items", disk.Stats().Items)
			utterances = disk
			closer = func() error {
				log.Debug("Utterance cache stats", "stats", fmt.Sprintf("%+v", disk.Stats()))
				return disk.Close()
			}
		}
	}

	players := func(sampleRate int) (speech.Player, error) {
		p, err := audio.NewPlayer(audio.Format{SampleRate: sampleRate, Channels: 1})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return speech.New(cfg, players, utterances), closer
}

func cacheDir() string {
	dir := viper.GetString("speech.cache.dir")
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			log.Warn("No cache directory", "error", err)
			return ""
		}
		return d
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		log.Warn("Invalid cache directory", "dir", dir, "error", err)
		return ""
	}
	return expanded
}

func newRecognizer(ctx context.Context, locale string) (voice.Recognizer, func() error) {
	noop := func() error { return nil }
	if viper.GetString("voice.recognizer") == "none" {
		return voice.Unavailable{}, noop
	}

	cfg := gcp.DefaultConfig()
	if err := viper.UnmarshalKey("voice.gcp", &cfg); err != nil {
		log.Warn("Could not parse recognizer config", "error", err)
	}
	cfg.Locale = locale
	rec, err := gcp.New(ctx, cfg)
	if err != nil {
		log.Info("Voice commands unavailable", "error", err)
		return voice.Unavailable{}, noop
	}
	return rec, rec.Close
}

// newApp builds the accessibility runtime for the TUI. bridge receives the
// live region, voice status and hearts.
func newApp(ctx context.Context, bridge *ui.Bridge) (*app, error) {
	cfg, err := runtimeConfig()
	if err != nil {
		return nil, err
	}

	store, path, err := openStore()
	if err != nil {
		return nil, err
	}
	a := &app{prefsPath: path}

	engine, closeEngine := newSpeechEngine()
	a.closers = append(a.closers, closeEngine)
	rec, closeRec := newRecognizer(ctx, cfg.Voice.Locale)
	a.closers = append(a.closers, closeRec)

	rt, err := runtime.New(runtime.Options{
		Config:        cfg,
		Store:         store,
		Engine:        engine,
		Recognizer:    rec,
		Region:        bridge,
		Hearts:        decor.NewHearts(decor.WithOnChange(bridge.HeartsChanged)),
		OnVoiceStatus: bridge.VoiceStatus,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.rt = rt
	return a, nil
}
