// Package decor runs the decorative floating hearts shown behind the about
// page. The animation stops and clears whenever reduced motion is on.
package decor

import (
	"math/rand"
	"sync"
	"time"

	"github.com/inclove/inclove/internal/clock"
)

const (
	// InitialHearts are spawned when the animation starts.
	InitialHearts = 20
	// MaxHearts bounds the field; the oldest heart is dropped beyond it.
	MaxHearts = 50
	// SpawnEvery is the interval between new hearts.
	SpawnEvery = time.Second
)

// Heart is one floating heart.
type Heart struct {
	ID       int
	Emoji    string
	Left     float64 // percent of the width
	Size     int     // cells or pixels, renderer dependent
	Duration time.Duration
	Delay    time.Duration
}

// Hearts spawns hearts on a timer while motion is allowed.
type Hearts struct {
	sched    clock.Scheduler
	rng      *rand.Rand
	onChange func([]Heart)

	mu      sync.Mutex
	hearts  []Heart
	nextID  int
	reduced bool
	running bool
	timer   clock.Timer
}

// Option configures Hearts.
type Option func(*Hearts)

// WithScheduler replaces the timer source.
func WithScheduler(s clock.Scheduler) Option {
	return func(h *Hearts) { h.sched = s }
}

// WithRand replaces the random source.
func WithRand(r *rand.Rand) Option {
	return func(h *Hearts) { h.rng = r }
}

// WithOnChange registers a callback receiving every new heart field.
func WithOnChange(fn func([]Heart)) Option {
	return func(h *Hearts) { h.onChange = fn }
}

// NewHearts creates a stopped animation.
func NewHearts(opts ...Option) *Hearts {
	h := &Hearts{
		sched: clock.Real(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start fills the field and begins spawning, unless motion is reduced.
func (h *Hearts) Start() {
	h.mu.Lock()
	if h.reduced || h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.hearts = h.hearts[:0]
	for i := 0; i < InitialHearts; i++ {
		h.addLocked()
	}
	h.scheduleLocked()
	snapshot := h.snapshotLocked()
	h.mu.Unlock()

	h.notify(snapshot)
}

// Stop halts spawning and clears the field.
func (h *Hearts) Stop() {
	h.mu.Lock()
	h.running = false
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.hearts = nil
	h.mu.Unlock()

	h.notify(nil)
}

// SetReduceMotion stops the animation when on and restarts it when off.
func (h *Hearts) SetReduceMotion(on bool) {
	h.mu.Lock()
	h.reduced = on
	h.mu.Unlock()

	if on {
		h.Stop()
		return
	}
	h.Start()
}

// Running reports whether hearts are being spawned.
func (h *Hearts) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Hearts returns the current field.
func (h *Hearts) Hearts() []Heart {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hearts) tick() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.addLocked()
	if len(h.hearts) > MaxHearts {
		h.hearts = h.hearts[len(h.hearts)-MaxHearts:]
	}
	h.scheduleLocked()
	snapshot := h.snapshotLocked()
	h.mu.Unlock()

	h.notify(snapshot)
}

func (h *Hearts) scheduleLocked() {
	h.timer = h.sched.AfterFunc(SpawnEvery, h.tick)
}

func (h *Hearts) addLocked() {
	emoji := "❤️"
	if h.rng.Float64() > 0.5 {
		emoji = "💖"
	}
	h.hearts = append(h.hearts, Heart{
		ID:       h.nextID,
		Emoji:    emoji,
		Left:     h.rng.Float64() * 100,
		Size:     h.rng.Intn(24) + 12,
		Duration: time.Duration((h.rng.Float64()*10 + 5) * float64(time.Second)),
		Delay:    time.Duration(h.rng.Float64() * 5 * float64(time.Second)),
	})
	h.nextID++
}

func (h *Hearts) snapshotLocked() []Heart {
	out := make([]Heart, len(h.hearts))
	copy(out, h.hearts)
	return out
}

func (h *Hearts) notify(hearts []Heart) {
	if h.onChange != nil {
		h.onChange(hearts)
	}
}
