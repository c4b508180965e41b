package announce

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/clock/fake"
	"github.com/inclove/inclove/internal/speech/mock"
)

func newTestQueue(t *testing.T) (*Queue, *mock.Engine, *Region, *fake.Scheduler) {
	t.Helper()
	engine := mock.New()
	region := &Region{}
	sched := fake.New()
	q := New(engine, region, WithScheduler(sched))
	q.SetEnabled(true)
	return q, engine, region, sched
}

func TestAnnounceSpeaksAndShows(t *testing.T) {
	q, engine, region, _ := newTestQueue(t)

	q.Announce("High contrast enabled", a11y.SourceToggle, a11y.PriorityNormal)

	if region.Text() != "High contrast enabled" {
		t.Errorf("region = %q", region.Text())
	}
	texts := engine.Texts()
	if len(texts) != 1 || texts[0] != "High contrast enabled" {
		t.Errorf("spoken = %v", texts)
	}

	s := q.Session()
	if !s.Active || s.ID == "" || s.Current == nil || s.Current.Source != a11y.SourceToggle {
		t.Errorf("session = %+v", s)
	}

	u, _ := engine.Last()
	if u.Voice.Rate != 1.0 || u.Voice.Pitch != 1.0 || u.Voice.Volume != 0.8 {
		t.Errorf("voice = %+v, want defaults", u.Voice)
	}

	engine.Finish(s.ID)
	if q.Session().Active {
		t.Error("session should end when the utterance finishes")
	}
}

func TestAtMostOneActiveUtterance(t *testing.T) {
	q, engine, region, _ := newTestQueue(t)

	q.Announce("first", a11y.SourceToggle, a11y.PriorityNormal)
	first := q.Session().ID
	q.Announce("second", a11y.SourceNavigation, a11y.PriorityNormal)

	if engine.Cancels() != 1 {
		t.Errorf("Cancels() = %d, want 1", engine.Cancels())
	}
	if engine.InFlight() != 1 {
		t.Errorf("InFlight() = %d, want 1", engine.InFlight())
	}
	s := q.Session()
	if s.ID == first || s.Current.Text != "second" || !s.Active {
		t.Errorf("session = %+v", s)
	}
	if region.Text() != "second" {
		t.Errorf("region = %q", region.Text())
	}

	// a late completion of the replaced utterance must not end the new one
	q.finished(first, nil)
	if !q.Session().Active {
		t.Error("stale completion ended the current session")
	}
}

func TestTypingDebounce(t *testing.T) {
	q, engine, region, sched := newTestQueue(t)

	q.Announce("Typing in Name: A", a11y.SourceTyping, a11y.PriorityNormal)
	sched.Advance(100 * time.Millisecond)
	q.Announce("Typing in Name: Al", a11y.SourceTyping, a11y.PriorityNormal)
	sched.Advance(100 * time.Millisecond)
	q.Announce("Typing in Name: Alex", a11y.SourceTyping, a11y.PriorityNormal)

	if len(engine.Texts()) != 0 {
		t.Fatalf("spoke before the quiet window: %v", engine.Texts())
	}

	sched.Advance(DefaultTypingDebounce)

	texts := engine.Texts()
	if len(texts) != 1 || texts[0] != "Typing in Name: Alex" {
		t.Errorf("spoken = %v, want only the last text", texts)
	}
	if region.Text() != "Typing in Name: Alex" {
		t.Errorf("region = %q", region.Text())
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", sched.Pending())
	}
}

func TestNewerRequestSupersedesPendingTyping(t *testing.T) {
	q, engine, _, sched := newTestQueue(t)

	q.Announce("Typing in Bio: hi", a11y.SourceTyping, a11y.PriorityNormal)
	q.Announce("Navigated to Messages", a11y.SourceNavigation, a11y.PriorityNormal)
	sched.Advance(time.Second)

	texts := engine.Texts()
	if len(texts) != 1 || texts[0] != "Navigated to Messages" {
		t.Errorf("spoken = %v", texts)
	}
}

func TestDisabledIsVisibleOnly(t *testing.T) {
	engine := mock.New()
	region := &Region{}
	q := New(engine, region, WithScheduler(fake.New()))

	q.Announce("Hello", a11y.SourceToggle, a11y.PriorityNormal)

	if region.Text() != "Hello" {
		t.Errorf("region = %q", region.Text())
	}
	if len(engine.Spoken()) != 0 {
		t.Errorf("spoken = %v, want none", engine.Texts())
	}
	if q.Stats().VisibleOnly != 1 {
		t.Errorf("VisibleOnly = %d", q.Stats().VisibleOnly)
	}
}

func TestDegradedSpeech(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mock.Engine)
	}{
		{"unavailable", func(e *mock.Engine) { e.SetAvailable(false) }},
		{"speak error", func(e *mock.Engine) { e.SetFailure(errors.New("device busy")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, engine, region, _ := newTestQueue(t)
			tt.setup(engine)

			q.Announce("Hello", a11y.SourceToggle, a11y.PriorityNormal)

			if region.Text() != "Hello" {
				t.Errorf("region = %q", region.Text())
			}
			if len(engine.Spoken()) != 0 {
				t.Errorf("spoken = %v, want none", engine.Texts())
			}
			if q.Session().Active {
				t.Error("no session should be active")
			}
		})
	}
}

func TestSetEnabledFalseCancels(t *testing.T) {
	q, engine, _, sched := newTestQueue(t)

	q.Announce("speaking", a11y.SourceToggle, a11y.PriorityNormal)
	q.Announce("Typing in Name: x", a11y.SourceTyping, a11y.PriorityNormal)
	q.SetEnabled(false)

	if engine.InFlight() != 0 {
		t.Errorf("InFlight() = %d, want 0", engine.InFlight())
	}
	if q.Session().Active {
		t.Error("session still active")
	}
	if sched.Pending() != 0 {
		t.Error("typing timer still pending")
	}

	sched.Advance(time.Second)
	if len(engine.Spoken()) != 1 {
		t.Errorf("spoken = %v", engine.Texts())
	}
}

func TestInterruptNotPreemptedByAmbient(t *testing.T) {
	q, engine, region, _ := newTestQueue(t)

	q.Announce("Alex, 28. Loves hiking.", a11y.SourceVoice, a11y.PriorityInterrupt)
	q.Announce("Like button", a11y.SourceAmbient, a11y.PriorityNormal)

	if region.Text() != "Alex, 28. Loves hiking." {
		t.Errorf("region = %q, ambient should be dropped on both channels", region.Text())
	}
	if engine.Cancels() != 0 {
		t.Errorf("Cancels() = %d, want 0", engine.Cancels())
	}

	// non-ambient requests still replace it
	q.Announce("Liked Alex", a11y.SourceVoice, a11y.PriorityNormal)
	if got := q.Session().Current.Text; got != "Liked Alex" {
		t.Errorf("current = %q", got)
	}
}

func TestLongAmbientTextAnnounced(t *testing.T) {
	q, _, region, _ := newTestQueue(t)

	long := "Focused on: " + strings.Repeat("a", 250)
	q.Announce(long, a11y.SourceAmbient, a11y.PriorityNormal)
	if region.Text() != long {
		t.Errorf("region = %q, long ambient text should be published", region.Text())
	}
	if got := q.Stats().Dropped; got != 0 {
		t.Errorf("Dropped = %d, want 0", got)
	}
}

func TestBlankTextIgnored(t *testing.T) {
	q, engine, region, _ := newTestQueue(t)
	q.Announce("   ", a11y.SourceToggle, a11y.PriorityNormal)
	if len(region.History()) != 0 || len(engine.Spoken()) != 0 {
		t.Error("blank text should be ignored")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"rate too high", func(c *Config) { c.Voice.Rate = 3 }, true},
		{"volume negative", func(c *Config) { c.Voice.Volume = -0.1 }, true},
		{"negative debounce", func(c *Config) { c.TypingDebounce = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
