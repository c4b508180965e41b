package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/announce"
	"github.com/inclove/inclove/internal/clock/fake"
	"github.com/inclove/inclove/internal/prefs"
	"github.com/inclove/inclove/internal/runtime"
	speechmock "github.com/inclove/inclove/internal/speech/mock"
	"github.com/inclove/inclove/internal/voice"
)

type harness struct {
	m      model
	rt     *runtime.Runtime
	bridge *Bridge
	engine *speechmock.Engine
	sched  *fake.Scheduler
}

func newHarness(t *testing.T, p a11y.Preferences, page string) *harness {
	t.Helper()
	store := prefs.NewStore(prefs.NewMemoryKV(), prefs.DefaultKey)
	if err := store.Save(p); err != nil {
		t.Fatal(err)
	}
	h := &harness{
		bridge: NewBridge(),
		engine: speechmock.New(),
		sched:  fake.New(),
	}
	rt, err := runtime.New(runtime.Options{
		Store:     store,
		Engine:    h.engine,
		Region:    h.bridge,
		Scheduler: h.sched,
	})
	if err != nil {
		t.Fatalf("runtime.New() error = %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	h.rt = rt

	cfg := Config{Page: page, GlamourStyle: styles.NoTTYStyle}
	h.m = newModel(cfg, rt, h.bridge)
	h.update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(model)
	return cmd
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.update(keyMsg(k))
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if rest, ok := strings.CutPrefix(k, "alt+"); ok {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(rest), Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func screenReaderOn() a11y.Preferences {
	p := a11y.Defaults()
	p.ScreenReader = true
	return p
}

func TestLikeAdvancesToNextProfile(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "")

	h.press("right")
	if got := h.bridge.Text(); got != "You liked Emma" {
		t.Errorf("live region = %q, want %q", got, "You liked Emma")
	}
	if !h.m.explore.transitioning {
		t.Fatal("card should be transitioning")
	}

	// A second like during the transition is ignored.
	h.press("right")
	if got := h.bridge.History(); len(got) != 1 {
		t.Errorf("history = %q, want a single announcement", got)
	}

	h.update(nextProfileMsg{})
	if got := h.m.explore.current().Name; got != "Alex" {
		t.Errorf("current profile = %s, want Alex", got)
	}
	if n := len(h.engine.Spoken()); n != 0 {
		t.Errorf("screen reader off should not speak, got %d utterances", n)
	}
}

func TestNextProfileIsReadWithScreenReader(t *testing.T) {
	h := newHarness(t, screenReaderOn(), "")

	h.press("left")
	h.update(nextProfileMsg{})

	u, ok := h.engine.Last()
	if !ok {
		t.Fatal("expected the next profile to be read")
	}
	if !strings.HasPrefix(u.Text, "Profile of Alex, age 27.") {
		t.Errorf("spoken = %q", u.Text)
	}
	if strings.Contains(u.Text, "*") {
		t.Errorf("markdown should be stripped: %q", u.Text)
	}
}

func TestSpaceReadsProfile(t *testing.T) {
	h := newHarness(t, screenReaderOn(), "")

	h.press(" ")
	u, ok := h.engine.Last()
	if !ok {
		t.Fatal("space should read the profile")
	}
	for _, want := range []string{"Profile of Emma, age 24.", "Interests include: 🎨 Art", "Community rating: 4.2 - Highly Rated"} {
		if !strings.Contains(u.Text, want) {
			t.Errorf("spoken text missing %q: %q", want, u.Text)
		}
	}
}

func TestVoiceCommandsReachThePage(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "")

	h.update(voiceCommandMsg{voice.CommandPass})
	if got := h.bridge.Text(); got != "You passed on Emma" {
		t.Errorf("live region = %q", got)
	}

	h.update(nextProfileMsg{})
	h.update(voiceCommandMsg{voice.CommandMessage})
	if h.m.page != PageMessages {
		t.Fatalf("page = %s, want messages", h.m.page)
	}
	if got := h.m.messages.conversation().Name; got != "Alex" {
		t.Errorf("conversation = %s, want Alex", got)
	}
	if !h.m.inTextInput() {
		t.Error("opening a chat should focus the draft")
	}
}

func TestPageKeysIgnoredWhileTyping(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "messages")

	h.press("left", "q")
	if got := h.m.messages.input.Value(); got != "q" {
		t.Errorf("draft = %q, want %q", got, "q")
	}
	if h.m.page != PageMessages {
		t.Error("left should not leave the messages page while typing")
	}

	// Alt shortcuts work everywhere.
	h.press("alt+c")
	if !h.rt.Prefs().HighContrast {
		t.Error("alt+c should toggle high contrast while typing")
	}
}

func TestTypingIsNarratedAfterQuietWindow(t *testing.T) {
	h := newHarness(t, screenReaderOn(), "messages")
	before := len(h.engine.Spoken())

	h.typeText("hi")
	if n := len(h.engine.Spoken()); n != before {
		t.Fatalf("typing should be debounced, got %d new utterances", n-before)
	}

	h.sched.Advance(announce.DefaultTypingDebounce)
	u, ok := h.engine.Last()
	if !ok || u.Text != "Typing in Message: hi" {
		t.Errorf("spoken = %q, want %q", u.Text, "Typing in Message: hi")
	}
}

func TestSendMessageAndReply(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "messages")
	h.m.messages.pick = func(int) int { return 1 }
	conv := h.m.messages.conversation()
	n := len(conv.Messages)

	h.typeText("I love gardening too")
	cmd := h.update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("sending should schedule a reply")
	}
	if got := h.bridge.Text(); got != "Message sent: I love gardening too" {
		t.Errorf("live region = %q", got)
	}
	if len(conv.Messages) != n+1 || !conv.Messages[n].Sent {
		t.Fatalf("sent message not appended: %+v", conv.Messages)
	}
	if h.m.messages.input.Value() != "" {
		t.Error("draft should be cleared")
	}

	h.update(replyMsg{conv: conv, text: cannedReplies[1]})
	want := "New message from Sarah: " + cannedReplies[1]
	if got := h.bridge.Text(); got != want {
		t.Errorf("live region = %q, want %q", got, want)
	}
}

func TestBlankMessageIsNotSent(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "messages")
	n := len(h.m.messages.conversation().Messages)

	h.typeText("   ")
	h.press("enter")
	if got := len(h.m.messages.conversation().Messages); got != n {
		t.Errorf("blank draft sent: %d messages, want %d", got, n)
	}
}

func TestEmotionAndCopy(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "messages")
	var copied string
	h.m.messages.copy = func(s string) error { copied = s; return nil }

	h.press("alt+1")
	if got := h.m.messages.input.Value(); got != "💙" {
		t.Errorf("draft = %q", got)
	}
	if got := h.bridge.Text(); got != "Added Supportive emotion to message" {
		t.Errorf("live region = %q", got)
	}

	h.update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if !strings.HasPrefix(copied, "I'm really into adaptive gardening") {
		t.Errorf("copied = %q", copied)
	}

	h.m.messages.copy = func(string) error { return errors.New("no clipboard") }
	h.update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := h.bridge.Text(); got != "Clipboard unavailable" {
		t.Errorf("live region = %q", got)
	}
}

func TestConversationFilter(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "")
	h.press("up") // opens a chat with Emma
	h.press("esc")
	if h.m.messages.focus != focusList {
		t.Fatalf("esc should leave the draft, focus = %d", h.m.messages.focus)
	}

	h.press("/")
	h.typeText("Sar")
	h.press("enter")
	if got := h.m.messages.conversation().Name; got != "Sarah Chen" {
		t.Errorf("conversation = %s, want Sarah Chen", got)
	}
	if h.m.messages.focus != focusCompose {
		t.Error("choosing a conversation should focus the draft")
	}
}

func TestAccessibilityPanel(t *testing.T) {
	h := newHarness(t, screenReaderOn(), "")

	h.press("alt+a")
	if !h.m.panelOpen {
		t.Fatal("alt+a should open the panel")
	}
	if got := h.bridge.Text(); got != "Focused on: Screen reader checkbox, checked" {
		t.Errorf("live region = %q", got)
	}

	// Arrow keys belong to the panel, not the page.
	h.press("down")
	if h.m.explore.transitioning {
		t.Error("arrow keys should not reach the page while the panel is open")
	}
	if got := h.bridge.Text(); got != "Focused on: High contrast checkbox, not checked" {
		t.Errorf("live region = %q", got)
	}

	h.press("enter")
	if !h.rt.Prefs().HighContrast {
		t.Error("enter should toggle high contrast")
	}

	h.press("down", "right")
	if got := h.rt.Prefs().ColorBlind; got != a11y.ColorBlindDeuteranopia {
		t.Errorf("colorblind = %s, want deuteranopia", got)
	}
	if h.rt.Prefs().HighContrast {
		t.Error("colorblind mode should turn high contrast off")
	}

	h.press("down", "right", "right")
	if got := h.rt.Prefs().Zoom; got != a11y.ZoomLarge {
		t.Errorf("zoom = %d, want %d", got, a11y.ZoomLarge)
	}

	h.press("esc")
	if h.m.panelOpen {
		t.Error("esc should close the panel")
	}
	if got := h.bridge.Text(); got != "Accessibility panel closed" {
		t.Errorf("live region = %q", got)
	}
}

func TestScreenReaderToggleFromPanel(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "")

	h.press("alt+a", "enter")
	if !h.rt.Prefs().ScreenReader {
		t.Fatal("enter on the first row should turn the screen reader on")
	}
	if got := h.bridge.Text(); got != "Screen reader enabled" {
		t.Errorf("live region = %q", got)
	}
	if h.rt.Document().Listeners() == 0 {
		t.Error("screen reader should attach document listeners")
	}
}

func TestTabFocusesControls(t *testing.T) {
	h := newHarness(t, screenReaderOn(), "")

	h.press("tab", "tab", "tab")
	if got := h.bridge.Text(); got != "Focused on: Like" {
		t.Errorf("live region = %q", got)
	}
	h.press("enter")
	if got := h.bridge.Text(); got != "You liked Emma" {
		t.Errorf("live region = %q", got)
	}
}

func TestViewShowsLiveRegion(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "")
	h.press("right")

	v := h.m.View()
	if !strings.Contains(v, "You liked Emma") {
		t.Error("status bar should show the live region")
	}
	if !strings.Contains(v, "100%") {
		t.Error("status bar should show the zoom level")
	}

	h.press("?")
	if !strings.Contains(h.m.View(), "accessibility panel") {
		t.Error("help should list the panel shortcut")
	}
}

func TestUnknownPageIsFatal(t *testing.T) {
	h := newHarness(t, a11y.Defaults(), "settings")
	if !strings.Contains(h.m.View(), "unknown page") {
		t.Error("unknown page should show an error")
	}
	if cmd := h.update(keyMsg("x")); cmd == nil {
		t.Error("any key should quit after a fatal error")
	}
}
