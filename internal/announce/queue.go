package announce

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/clock"
	"github.com/inclove/inclove/internal/speech"
)

// DefaultTypingDebounce is the quiet window before typing narration is
// announced.
const DefaultTypingDebounce = 800 * time.Millisecond

// Config holds the queue settings.
type Config struct {
	Voice          speech.Voice  `mapstructure:"voice"`
	TypingDebounce time.Duration `mapstructure:"typing_debounce"`
}

// DefaultConfig returns the default queue settings.
func DefaultConfig() Config {
	return Config{
		Voice:          speech.DefaultVoice(),
		TypingDebounce: DefaultTypingDebounce,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Voice.Validate(); err != nil {
		return fmt.Errorf("invalid voice: %w", err)
	}
	if c.TypingDebounce < 0 {
		return errors.New("typing debounce cannot be negative")
	}
	return nil
}

// Session describes the utterance currently owned by the queue.
type Session struct {
	Active  bool
	Current *a11y.Request
	ID      string
}

// Stats counts what happened to announcements.
type Stats struct {
	Requested   int64
	Spoken      int64
	VisibleOnly int64
	Dropped     int64
	Debounced   int64
	SpeakErrors int64
}

// Option configures a Queue.
type Option func(*Queue)

// WithScheduler replaces the timer source.
func WithScheduler(s clock.Scheduler) Option {
	return func(q *Queue) { q.sched = s }
}

// WithConfig replaces the default configuration.
func WithConfig(c Config) Option {
	return func(q *Queue) { q.cfg = c }
}

// Queue serializes announcements onto the live region and speech engine.
type Queue struct {
	engine speech.Engine
	region LiveRegion
	sched  clock.Scheduler
	cfg    Config

	// deliverMu orders deliveries; mu guards state. Engine calls happen
	// with only deliverMu held because done callbacks take mu.
	deliverMu sync.Mutex
	mu        sync.Mutex

	enabled   bool
	session   Session
	typing    clock.Timer
	typingGen uint64
	stats     Stats
}

// New creates a queue. The screen reader starts disabled.
func New(engine speech.Engine, region LiveRegion, opts ...Option) *Queue {
	q := &Queue{
		engine: engine,
		region: region,
		sched:  clock.Real(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.engine == nil {
		q.engine = speech.NewNoOp()
	}
	if q.region == nil {
		q.region = LiveRegionFunc(func(string) {})
	}
	return q
}

// Announce publishes text. Typing requests are debounced; everything else
// is delivered immediately.
func (q *Queue) Announce(text string, source a11y.Source, priority a11y.Priority) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	req := a11y.Request{Text: text, Source: source, Priority: priority}

	q.mu.Lock()
	q.stats.Requested++

	if source == a11y.SourceAmbient && q.session.Active && q.session.Current != nil &&
		q.session.Current.Priority == a11y.PriorityInterrupt {
		q.stats.Dropped++
		q.mu.Unlock()
		log.Debug("Ambient announcement dropped during interrupt", "text", text)
		return
	}

	// any newer request supersedes pending typing narration
	q.stopTypingLocked()

	if source == a11y.SourceTyping && q.cfg.TypingDebounce > 0 {
		q.typingGen++
		gen := q.typingGen
		q.typing = q.sched.AfterFunc(q.cfg.TypingDebounce, func() {
			q.fireTyping(gen, req)
		})
		q.mu.Unlock()
		return
	}
	q.mu.Unlock()

	q.deliver(req)
}

func (q *Queue) stopTypingLocked() {
	if q.typing != nil {
		q.typing.Stop()
		q.typing = nil
		q.stats.Debounced++
	}
	q.typingGen++
}

func (q *Queue) fireTyping(gen uint64, req a11y.Request) {
	q.mu.Lock()
	if gen != q.typingGen {
		q.mu.Unlock()
		return
	}
	q.typing = nil
	q.mu.Unlock()

	q.deliver(req)
}

func (q *Queue) deliver(req a11y.Request) {
	q.deliverMu.Lock()
	defer q.deliverMu.Unlock()

	q.region.SetText(req.Text)

	q.mu.Lock()
	enabled := q.enabled
	wasActive := q.session.Active
	q.mu.Unlock()

	if !enabled {
		q.countVisibleOnly()
		return
	}
	if !q.engine.IsAvailable() {
		q.countVisibleOnly()
		log.Debug("Speech unavailable, announcement shown only", "text", req.Text)
		return
	}

	if wasActive {
		q.engine.Cancel()
	}

	id := uuid.NewString()
	q.mu.Lock()
	q.session = Session{Active: true, Current: &req, ID: id}
	q.mu.Unlock()

	u := speech.Utterance{ID: id, Text: req.Text, Voice: q.cfg.Voice}
	if err := q.engine.Speak(u, func(err error) { q.finished(id, err) }); err != nil {
		log.Warn("Speech failed, announcement shown only", "source", req.Source, "error", err)
		q.mu.Lock()
		q.stats.SpeakErrors++
		if q.session.ID == id {
			q.session.Active = false
		}
		q.mu.Unlock()
		return
	}

	q.mu.Lock()
	q.stats.Spoken++
	q.mu.Unlock()
}

func (q *Queue) countVisibleOnly() {
	q.mu.Lock()
	q.stats.VisibleOnly++
	q.mu.Unlock()
}

func (q *Queue) finished(id string, err error) {
	if err != nil && !errors.Is(err, speech.ErrCanceled) {
		log.Warn("Utterance failed", "id", id, "error", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.session.ID == id {
		q.session.Active = false
	}
}

// SetEnabled turns the audible channel on or off. Disabling cancels the
// active utterance and pending typing narration before it returns.
func (q *Queue) SetEnabled(on bool) {
	q.mu.Lock()
	q.enabled = on
	if on {
		q.mu.Unlock()
		return
	}
	q.stopTypingLocked()
	active := q.session.Active
	q.session.Active = false
	q.mu.Unlock()

	if active {
		q.engine.Cancel()
	}
}

// Enabled reports whether announcements are spoken.
func (q *Queue) Enabled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enabled
}

// Cancel stops the active utterance and pending typing narration without
// changing the enabled state.
func (q *Queue) Cancel() {
	q.mu.Lock()
	q.stopTypingLocked()
	active := q.session.Active
	q.session.Active = false
	q.mu.Unlock()

	if active {
		q.engine.Cancel()
	}
}

// Session returns a snapshot of the current session.
func (q *Queue) Session() Session {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.session
	if s.Current != nil {
		req := *s.Current
		s.Current = &req
	}
	return s
}

// Stats returns a snapshot of the counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// Close disables the queue.
func (q *Queue) Close() {
	q.SetEnabled(false)
}
