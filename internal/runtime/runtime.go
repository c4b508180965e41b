// Package runtime assembles the accessibility services into the single
// AccessibilityRuntime shared by every page: one preference record, one
// announcement queue, one screen reader instrumentation and one voice
// command controller.
package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/announce"
	"github.com/inclove/inclove/internal/clock"
	"github.com/inclove/inclove/internal/decor"
	"github.com/inclove/inclove/internal/dom"
	"github.com/inclove/inclove/internal/prefs"
	"github.com/inclove/inclove/internal/speech"
	"github.com/inclove/inclove/internal/visual"
	"github.com/inclove/inclove/internal/voice"
)

// Store loads and saves the preference record.
type Store interface {
	Load() a11y.Preferences
	Save(p a11y.Preferences) error
}

// Options are the runtime's dependencies. Zero values fall back to
// in-memory or no-op implementations.
type Options struct {
	Config     Config
	Store      Store
	Engine     speech.Engine
	Recognizer voice.Recognizer
	Document   *dom.Document
	Region     announce.LiveRegion
	Scheduler  clock.Scheduler
	Hearts     *decor.Hearts

	// OnVoiceStatus receives voice command status text.
	OnVoiceStatus func(string)
}

// Runtime is the AccessibilityRuntime.
type Runtime struct {
	store  Store
	doc    *dom.Document
	queue  *announce.Queue
	visual *visual.Controller
	dom    *dom.Manager
	voice  *voice.Controller
	hearts *decor.Hearts
}

// New builds the runtime and applies the stored preferences.
func New(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime config: %w", err)
	}

	store := opts.Store
	if store == nil {
		store = prefs.NewStore(prefs.NewMemoryKV(), prefs.DefaultKey)
	}
	doc := opts.Document
	if doc == nil {
		doc = dom.NewDocument()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = clock.Real()
	}

	queue := announce.New(opts.Engine, opts.Region,
		announce.WithConfig(cfg.Announce),
		announce.WithScheduler(sched),
	)

	voiceOpts := []voice.Option{voice.WithConfig(cfg.Voice), voice.WithScheduler(sched)}
	if opts.OnVoiceStatus != nil {
		voiceOpts = append(voiceOpts, voice.WithStatus(opts.OnVoiceStatus))
	}

	r := &Runtime{
		store:  store,
		doc:    doc,
		queue:  queue,
		visual: visual.New(doc, store, queue, store.Load()),
		dom:    dom.NewManager(doc, queue),
		voice:  voice.New(opts.Recognizer, nil, voiceOpts...),
		hearts: opts.Hearts,
	}
	if r.hearts != nil {
		r.visual.AddMotionListener(r.hearts)
	}
	r.sync(r.visual.Prefs())
	return r, nil
}

// sync brings the queue, instrumentation and voice controller in line with
// p without saving or announcing.
func (r *Runtime) sync(p a11y.Preferences) {
	r.queue.SetEnabled(p.ScreenReader)
	r.dom.Sync(p.ScreenReader)

	if p.VoiceCommands == r.voice.Enabled() {
		return
	}
	if !p.VoiceCommands {
		r.voice.Disable()
		return
	}
	if err := r.voice.Enable(); err != nil {
		log.Warn("Voice commands unavailable", "error", err)
		// the live record follows what is running; the stored one is kept
		p.VoiceCommands = false
		r.visual.Apply(p)
	}
}

// Prefs returns a copy of the current preferences.
func (r *Runtime) Prefs() a11y.Preferences {
	return r.visual.Prefs()
}

// Document returns the instrumented document.
func (r *Runtime) Document() *dom.Document {
	return r.doc
}

// Queue returns the announcement queue.
func (r *Runtime) Queue() *announce.Queue {
	return r.queue
}

// VoiceStatus returns the voice command status text.
func (r *Runtime) VoiceStatus() string {
	return r.voice.Status()
}

// SetActions routes voice commands to the active page.
func (r *Runtime) SetActions(actions a11y.Actions) {
	r.voice.SetActions(actions)
}

// Announce publishes text on the visible and audible channels.
func (r *Runtime) Announce(text string, source a11y.Source, priority a11y.Priority) {
	r.queue.Announce(text, source, priority)
}

// SetScreenReader turns the screen reader on or off. The queue and the
// document listeners change state before SetScreenReader returns.
func (r *Runtime) SetScreenReader(on bool) {
	if _, changed := r.visual.Update(func(p *a11y.Preferences) { p.ScreenReader = on }); !changed {
		return
	}
	r.queue.SetEnabled(on)
	r.dom.Sync(on)
	r.queue.Announce(a11y.EnabledText("Screen reader", on), a11y.SourceToggle, a11y.PriorityNormal)
}

// ToggleScreenReader flips the screen reader.
func (r *Runtime) ToggleScreenReader() {
	r.SetScreenReader(!r.Prefs().ScreenReader)
}

// ToggleHighContrast flips high contrast.
func (r *Runtime) ToggleHighContrast() {
	r.visual.SetHighContrast(!r.Prefs().HighContrast)
}

// SetColorBlindMode selects a colorblind filter.
func (r *Runtime) SetColorBlindMode(mode a11y.ColorBlindMode) error {
	return r.visual.SetColorBlindMode(mode)
}

// CycleColorBlindMode advances to the next colorblind filter.
func (r *Runtime) CycleColorBlindMode() a11y.ColorBlindMode {
	return r.visual.CycleColorBlindMode()
}

// ZoomIn moves one zoom step up.
func (r *Runtime) ZoomIn() { r.visual.ZoomIn() }

// ZoomOut moves one zoom step down.
func (r *Runtime) ZoomOut() { r.visual.ZoomOut() }

// ResetZoom returns to normal zoom.
func (r *Runtime) ResetZoom() { r.visual.ResetZoom() }

// ToggleReduceMotion flips reduced motion.
func (r *Runtime) ToggleReduceMotion() {
	r.visual.SetReduceMotion(!r.Prefs().ReduceMotion)
}

// ToggleDarkMode flips dark mode.
func (r *Runtime) ToggleDarkMode() {
	r.visual.SetDarkMode(!r.Prefs().DarkMode)
}

// SetVoiceCommands turns voice commands on or off. When recognition is
// unavailable the preference is left off and the error is returned after
// being announced.
func (r *Runtime) SetVoiceCommands(on bool) error {
	if on == r.voice.Enabled() && on == r.Prefs().VoiceCommands {
		return nil
	}
	if on {
		if err := r.voice.Enable(); err != nil {
			log.Warn("Voice commands unavailable", "error", err)
			r.queue.Announce("Voice commands are not supported on this device", a11y.SourceToggle, a11y.PriorityNormal)
			return err
		}
	} else {
		r.voice.Disable()
	}
	r.visual.Update(func(p *a11y.Preferences) { p.VoiceCommands = on })
	r.queue.Announce(a11y.EnabledText("Voice commands", on), a11y.SourceToggle, a11y.PriorityNormal)
	return nil
}

// ToggleVoiceCommands flips voice commands.
func (r *Runtime) ToggleVoiceCommands() error {
	return r.SetVoiceCommands(!r.Prefs().VoiceCommands)
}

// Reload applies externally changed preferences without saving or
// announcing them.
func (r *Runtime) Reload(p a11y.Preferences) {
	r.visual.Apply(p)
	r.sync(r.visual.Prefs())
}

// Watch reloads the preferences whenever the file at path changes. It
// blocks until ctx is done.
func (r *Runtime) Watch(ctx context.Context, path string) error {
	return prefs.Watch(ctx, path, func() {
		if r.reloadStored() {
			log.Debug("Preferences changed on disk, reloaded", "path", path)
		}
	})
}

// reloadStored reloads the stored record unless it matches the live one,
// which is the case after this process's own saves.
func (r *Runtime) reloadStored() bool {
	p := r.store.Load().Normalize()
	if p == r.visual.Prefs() {
		return false
	}
	r.Reload(p)
	return true
}

// Close releases listeners, recognition and speech.
func (r *Runtime) Close() error {
	r.voice.Close()
	r.dom.Disable()
	r.queue.Close()
	if r.hearts != nil {
		r.hearts.Stop()
	}
	if r.doc.Listeners() != 0 {
		return errors.New("document listeners leaked")
	}
	return nil
}
