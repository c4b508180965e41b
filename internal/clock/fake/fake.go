// Package fake provides a manually advanced clock.Scheduler for tests.
package fake

import (
	"sort"
	"sync"
	"time"

	"github.com/inclove/inclove/internal/clock"
)

// Compile-time interface check.
var _ clock.Scheduler = (*Scheduler)(nil)

// Scheduler fires timers only when Advance is called.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	s       *Scheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

// New creates a fake scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// AfterFunc schedules f to run once Advance passes d from now.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &timer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every timer that became
// due, in due order. Timers scheduled by those callbacks run too when they
// fall inside the window.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *timer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.prune()
			s.mu.Unlock()
			return
		}
		next.fired = true
		if next.at > s.now {
			s.now = next.at
		}
		s.mu.Unlock()

		next.f()
	}
}

func (s *Scheduler) prune() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live
}

// Pending returns the number of timers that have not fired or been stopped.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Now returns the elapsed fake time.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Durations returns the delays of pending timers relative to now, sorted.
func (s *Scheduler) Durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.at-s.now)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
