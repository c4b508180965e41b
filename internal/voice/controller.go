// Package voice turns continuous speech recognition into page actions. A
// Controller runs the stopped/listening/processing state machine, classifies
// final transcripts by keyword and dispatches them through the same
// a11y.Actions the keyboard uses.
package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/clock"
)

// Status texts shown while voice commands are on.
const (
	StatusListening    = "Listening for commands..."
	StatusUnrecognized = `Command not recognized. Try "like", "pass", or "message"`
	StatusError        = "Voice recognition error. Please try again."
	StatusReading      = "Reading profile..."
	StatusStopped      = "Voice commands off"
)

// ErrUnavailable is returned when no recognizer is usable.
var ErrUnavailable = errors.New("speech recognition unavailable")

// State is the controller state.
type State int

const (
	StateStopped State = iota
	StateListening
	StateProcessing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the controller.
type Session struct {
	State          State
	LastTranscript string
}

// Config holds the controller timing.
type Config struct {
	Locale       string        `mapstructure:"locale"`
	RevertAfter  time.Duration `mapstructure:"revert_after"`
	ActionDelay  time.Duration `mapstructure:"action_delay"`
	RestartEvery time.Duration `mapstructure:"restart_every"`
	RestartBurst int           `mapstructure:"restart_burst"`
}

// DefaultConfig returns the default timing.
func DefaultConfig() Config {
	return Config{
		Locale:       "en-US",
		RevertAfter:  2 * time.Second,
		ActionDelay:  500 * time.Millisecond,
		RestartEvery: time.Second,
		RestartBurst: 3,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Locale == "" {
		return errors.New("locale is required")
	}
	if c.RevertAfter < 0 || c.ActionDelay < 0 {
		return errors.New("delays cannot be negative")
	}
	if c.RestartEvery <= 0 || c.RestartBurst < 1 {
		return fmt.Errorf("invalid restart pacing: every %v burst %d", c.RestartEvery, c.RestartBurst)
	}
	return nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the timer source.
func WithScheduler(s clock.Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithConfig replaces the default timing.
func WithConfig(cfg Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithStatus registers a callback for status text changes.
func WithStatus(fn func(string)) Option {
	return func(c *Controller) { c.onStatus = fn }
}

// Controller is the voice command state machine.
type Controller struct {
	rec     Recognizer
	actions a11y.Actions
	sched   clock.Scheduler
	cfg     Config
	limiter *rate.Limiter

	onStatus func(string)

	mu       sync.Mutex
	enabled  bool
	epoch    uint64 // bumped by Disable
	gen      uint64 // bumped per recognizer session
	state    State
	status   string
	last     string
	revert   clock.Timer
	pending  clock.Timer
	restart  clock.Timer
	cancel   context.CancelFunc
	restarts int
}

// New creates a stopped controller.
func New(rec Recognizer, actions a11y.Actions, opts ...Option) *Controller {
	c := &Controller{
		rec:     rec,
		actions: actions,
		sched:   clock.Real(),
		cfg:     DefaultConfig(),
		status:  StatusStopped,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rec == nil {
		c.rec = Unavailable{}
	}
	c.limiter = rate.NewLimiter(rate.Every(c.cfg.RestartEvery), c.cfg.RestartBurst)
	return c
}

// SetActions replaces the dispatch target, for example on page change.
func (c *Controller) SetActions(actions a11y.Actions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions = actions
}

// Enable starts listening. It fails when recognition is unavailable.
func (c *Controller) Enable() error {
	if !c.rec.IsAvailable() {
		return a11y.NewError(a11y.ErrorCodeCapabilityUnavailable, "voice commands are not supported here", ErrUnavailable)
	}

	c.mu.Lock()
	if c.enabled {
		c.mu.Unlock()
		return nil
	}
	c.enabled = true
	c.mu.Unlock()

	c.start(true)
	return nil
}

// Disable stops listening. Transcripts from the stopped session are
// discarded.
func (c *Controller) Disable() {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = false
	c.epoch++
	c.gen++
	c.state = StateStopped
	c.stopTimersLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.rec.Stop()
	c.setStatus(StatusStopped)
}

// Enabled reports whether voice commands are on.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Session returns a snapshot of the controller.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Session{State: c.state, LastTranscript: c.last}
}

// Status returns the current status text.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Restarts returns how many times the recognizer was restarted after
// ending on its own.
func (c *Controller) Restarts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restarts
}

func (c *Controller) start(initial bool) {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	c.gen++
	h := &handler{c: c, gen: c.gen}
	c.state = StateListening
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	if initial {
		c.setStatus(StatusListening)
	}
	if err := c.rec.Start(ctx, h); err != nil {
		log.Warn("Voice recognition failed to start", "error", err)
		h.Error(err)
	}
}

func (c *Controller) setStatus(s string) {
	c.mu.Lock()
	c.status = s
	fn := c.onStatus
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// currentLocked reports whether gen is the live recognizer session.
// Callers hold c.mu.
func (c *Controller) currentLocked(gen uint64) bool {
	return c.enabled && gen == c.gen
}

// liveLocked reports whether voice commands stayed on since epoch.
func (c *Controller) liveLocked(epoch uint64) bool {
	return c.enabled && epoch == c.epoch
}

func (c *Controller) stopTimersLocked() {
	if c.revert != nil {
		c.revert.Stop()
		c.revert = nil
	}
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.restart != nil {
		c.restart.Stop()
		c.restart = nil
	}
}

func (c *Controller) result(gen uint64, transcript string, final bool) {
	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		log.Debug("Discarding transcript from stale session", "transcript", transcript)
		return
	}
	c.last = transcript
	if !final {
		c.mu.Unlock()
		return
	}
	c.state = StateProcessing
	if c.revert != nil {
		c.revert.Stop()
		c.revert = nil
	}
	c.mu.Unlock()

	cmd := Classify(transcript)
	log.Debug("Voice command", "transcript", transcript, "command", cmd)

	switch cmd {
	case CommandNone:
		c.setStatus(StatusUnrecognized)
	case CommandRead:
		c.setStatus(StatusReading)
	default:
		c.setStatus("Command recognized: " + cmd.Title())
	}

	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return
	}
	epoch := c.epoch
	c.state = StateListening
	immediate := false
	switch {
	case cmd == CommandNone:
		c.revert = c.sched.AfterFunc(c.cfg.RevertAfter, func() { c.revertStatus(epoch) })
	case c.cfg.ActionDelay <= 0:
		immediate = true
	default:
		if c.pending != nil {
			c.pending.Stop()
		}
		c.pending = c.sched.AfterFunc(c.cfg.ActionDelay, func() { c.dispatch(epoch, cmd) })
	}
	c.mu.Unlock()

	if immediate {
		c.dispatch(epoch, cmd)
	}
}

func (c *Controller) dispatch(epoch uint64, cmd Command) {
	c.mu.Lock()
	if !c.liveLocked(epoch) {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	actions := c.actions
	c.mu.Unlock()

	if actions == nil {
		return
	}
	switch cmd {
	case CommandLike:
		actions.Like()
	case CommandPass:
		actions.Pass()
	case CommandMessage:
		actions.Message()
	case CommandRead:
		actions.ReadProfile()
	}
}

func (c *Controller) revertStatus(epoch uint64) {
	c.mu.Lock()
	ok := c.liveLocked(epoch) && c.status == StatusUnrecognized
	c.revert = nil
	c.mu.Unlock()
	if ok {
		c.setStatus(StatusListening)
	}
}

func (c *Controller) fail(gen uint64, err error) {
	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return
	}
	c.state = StateListening
	c.mu.Unlock()

	log.Warn("Voice recognition error", "error", a11y.NewError(a11y.ErrorCodeRecognitionTransient, "recognition failed", err))
	c.setStatus(StatusError)
}

// end restarts recognition while voice commands stay enabled. Restarts go
// through the rate limiter.
func (c *Controller) end(gen uint64) {
	c.mu.Lock()
	if !c.currentLocked(gen) || c.restart != nil {
		c.mu.Unlock()
		return
	}
	c.restarts++
	delay := c.limiter.Reserve().Delay()
	if delay <= 0 {
		c.mu.Unlock()
		c.start(false)
		return
	}
	log.Debug("Pacing voice recognition restart", "delay", delay)
	c.restart = c.sched.AfterFunc(delay, func() {
		c.mu.Lock()
		ok := c.currentLocked(gen)
		c.restart = nil
		c.mu.Unlock()
		if ok {
			c.start(false)
		}
	})
	c.mu.Unlock()
}

// Close disables the controller.
func (c *Controller) Close() {
	c.Disable()
}

// handler binds recognizer events to the session generation that
// started them.
type handler struct {
	c   *Controller
	gen uint64
}

func (h *handler) Result(transcript string, final bool) { h.c.result(h.gen, transcript, final) }
func (h *handler) Error(err error) { h.c.fail(h.gen, err) }
func (h *handler) End() { h.c.end(h.gen) }
