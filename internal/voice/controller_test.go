package voice_test

import (
	"errors"
	"testing"
	"time"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/clock/fake"
	"github.com/inclove/inclove/internal/voice"
	"github.com/inclove/inclove/internal/voice/mock"
)

type actions struct {
	likes, passes, messages, reads int
}

func (a *actions) Like()        { a.likes++ }
func (a *actions) Pass()        { a.passes++ }
func (a *actions) Message()     { a.messages++ }
func (a *actions) ReadProfile() { a.reads++ }

func newTestController(t *testing.T) (*voice.Controller, *mock.Recognizer, *actions, *fake.Scheduler, *[]string) {
	t.Helper()
	rec := mock.New()
	acts := &actions{}
	sched := fake.New()
	var statuses []string
	c := voice.New(rec, acts,
		voice.WithScheduler(sched),
		voice.WithStatus(func(s string) { statuses = append(statuses, s) }),
	)
	return c, rec, acts, sched, &statuses
}

func TestVoiceDispatchScenario(t *testing.T) {
	c, rec, acts, sched, _ := newTestController(t)
	if err := c.Enable(); err != nil {
		t.Fatal(err)
	}

	rec.Say("please like this person")
	if c.Status() != "Command recognized: Like" {
		t.Errorf("Status() = %q", c.Status())
	}
	if acts.likes != 0 {
		t.Error("dispatch should wait for the action delay")
	}

	sched.Advance(time.Second)
	if acts.likes != 1 || acts.passes+acts.messages+acts.reads != 0 {
		t.Errorf("actions = %+v, want exactly one like", *acts)
	}
	if s := c.Session(); s.State != voice.StateListening || s.LastTranscript != "please like this person" {
		t.Errorf("Session() = %+v", s)
	}
}

func TestDispatchSurvivesRecognizerRestart(t *testing.T) {
	c, rec, acts, sched, _ := newTestController(t)
	_ = c.Enable()

	rec.Say("pass")
	rec.End()
	sched.Advance(time.Second)

	if acts.passes != 1 {
		t.Errorf("passes = %d, want 1", acts.passes)
	}
	if rec.Starts() != 2 {
		t.Errorf("Starts() = %d, want 2", rec.Starts())
	}
}

func TestImmediateDispatch(t *testing.T) {
	rec := mock.New()
	acts := &actions{}
	cfg := voice.DefaultConfig()
	cfg.ActionDelay = 0
	c := voice.New(rec, acts, voice.WithScheduler(fake.New()), voice.WithConfig(cfg))
	_ = c.Enable()

	rec.Say("read the profile")
	rec.Say("message")
	if acts.reads != 1 || acts.messages != 1 {
		t.Errorf("actions = %+v", *acts)
	}
}

func TestUnrecognizedStatusReverts(t *testing.T) {
	c, rec, acts, sched, statuses := newTestController(t)
	_ = c.Enable()

	rec.Say("what time is it")
	if c.Status() != voice.StatusUnrecognized {
		t.Errorf("Status() = %q", c.Status())
	}

	sched.Advance(1999 * time.Millisecond)
	if c.Status() != voice.StatusUnrecognized {
		t.Error("status reverted too early")
	}
	sched.Advance(time.Millisecond)
	if c.Status() != voice.StatusListening {
		t.Errorf("Status() = %q, want listening", c.Status())
	}

	want := []string{voice.StatusListening, voice.StatusUnrecognized, voice.StatusListening}
	if len(*statuses) != len(want) {
		t.Fatalf("statuses = %q", *statuses)
	}
	for i := range want {
		if (*statuses)[i] != want[i] {
			t.Errorf("status %d = %q, want %q", i, (*statuses)[i], want[i])
		}
	}
	if *acts != (actions{}) {
		t.Errorf("no action expected, got %+v", *acts)
	}
}

func TestInterimResultsIgnored(t *testing.T) {
	c, rec, acts, sched, _ := newTestController(t)
	_ = c.Enable()

	rec.Hear("like")
	sched.Advance(time.Second)
	if acts.likes != 0 {
		t.Error("interim results must not dispatch")
	}
	if c.Session().LastTranscript != "like" {
		t.Errorf("LastTranscript = %q", c.Session().LastTranscript)
	}
}

func TestErrorKeepsListening(t *testing.T) {
	c, rec, acts, sched, _ := newTestController(t)
	_ = c.Enable()

	rec.Fail(errors.New("network"))
	if c.Status() != voice.StatusError {
		t.Errorf("Status() = %q", c.Status())
	}
	if c.Session().State != voice.StateListening || !c.Enabled() {
		t.Error("controller should keep listening after an error")
	}

	rec.Say("yes")
	sched.Advance(time.Second)
	if acts.likes != 1 {
		t.Errorf("likes = %d", acts.likes)
	}
}

func TestDisableDiscardsLateTranscripts(t *testing.T) {
	c, rec, acts, sched, _ := newTestController(t)
	_ = c.Enable()
	session := rec.Session(0)

	rec.Say("like")
	c.Disable()
	sched.Advance(time.Second)
	session.Result("pass", true)
	session.End()

	if acts.likes != 0 || acts.passes != 0 {
		t.Errorf("actions after disable = %+v", *acts)
	}
	if rec.Stops() != 1 || rec.Starts() != 1 {
		t.Errorf("Starts() = %d, Stops() = %d", rec.Starts(), rec.Stops())
	}
	if c.Session().State != voice.StateStopped || c.Status() != voice.StatusStopped {
		t.Errorf("Session() = %+v, Status() = %q", c.Session(), c.Status())
	}
}

func TestRestartPacing(t *testing.T) {
	c, rec, _, sched, _ := newTestController(t)
	_ = c.Enable()

	for i := 0; i < 5; i++ {
		rec.End()
	}

	// the burst allows three immediate restarts; the next waits
	if rec.Starts() != 4 {
		t.Fatalf("Starts() = %d, want 4", rec.Starts())
	}
	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want one paced restart", sched.Pending())
	}
	sched.Advance(2 * time.Second)
	if rec.Starts() != 5 {
		t.Errorf("Starts() = %d, want 5", rec.Starts())
	}
	if c.Restarts() != 4 {
		t.Errorf("Restarts() = %d, want 4", c.Restarts())
	}
}

func TestEnableUnavailable(t *testing.T) {
	rec := mock.New()
	rec.SetAvailable(false)
	c := voice.New(rec, &actions{})

	err := c.Enable()
	if !errors.Is(err, a11y.ErrCapabilityUnavailable) || !errors.Is(err, voice.ErrUnavailable) {
		t.Errorf("Enable() error = %v", err)
	}
	if c.Enabled() || rec.Starts() != 0 {
		t.Error("controller should stay stopped")
	}

	if err := voice.New(nil, nil).Enable(); err == nil {
		t.Error("nil recognizer should be unavailable")
	}
}

func TestStartErrorReported(t *testing.T) {
	c, rec, _, _, _ := newTestController(t)
	rec.SetStartError(errors.New("no microphone"))
	if err := c.Enable(); err != nil {
		t.Fatal(err)
	}
	if c.Status() != voice.StatusError {
		t.Errorf("Status() = %q", c.Status())
	}
}

func TestSetActions(t *testing.T) {
	c, rec, first, sched, _ := newTestController(t)
	second := &actions{}
	_ = c.Enable()
	c.SetActions(second)

	rec.Say("chat")
	sched.Advance(time.Second)
	if first.messages != 0 || second.messages != 1 {
		t.Errorf("first = %+v, second = %+v", *first, *second)
	}
}

func TestStateString(t *testing.T) {
	tests := map[voice.State]string{
		voice.StateStopped:    "stopped",
		voice.StateListening:  "listening",
		voice.StateProcessing: "processing",
		voice.State(9):        "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("String() = %q, want %q", s.String(), want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := voice.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
	cfg.RestartBurst = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero burst should be invalid")
	}
}
