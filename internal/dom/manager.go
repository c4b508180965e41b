package dom

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/inclove/inclove/internal/a11y"
)

// MaxHoverRunes bounds hover and click narration. Focus narration is never
// cut short.
const MaxHoverRunes = 200

// Announcer receives narration.
type Announcer interface {
	Announce(text string, source a11y.Source, priority a11y.Priority)
}

// Registration records one attached listener.
type Registration struct {
	Type     EventType
	ID       ListenerID
	Attached bool
}

// Subscription owns the listeners attached by one Enable call.
type Subscription struct {
	doc *Document

	mu   sync.Mutex
	regs []Registration
}

// Dispose detaches every listener. It is safe to call more than once.
func (s *Subscription) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.regs {
		if s.regs[i].Attached {
			s.doc.RemoveListener(s.regs[i].Type, s.regs[i].ID)
			s.regs[i].Attached = false
		}
	}
}

// Registrations returns a copy of the subscription's registrations.
func (s *Subscription) Registrations() []Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Registration, len(s.regs))
	copy(out, s.regs)
	return out
}

// Active reports whether any listener is still attached.
func (s *Subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regs {
		if r.Attached {
			return true
		}
	}
	return false
}

// Manager attaches screen reader narration to a document.
type Manager struct {
	doc       *Document
	announcer Announcer

	mu  sync.Mutex
	sub *Subscription
}

// NewManager creates a detached manager.
func NewManager(doc *Document, announcer Announcer) *Manager {
	return &Manager{doc: doc, announcer: announcer}
}

// Enable attaches the focus, click, hover, input and change listeners and
// returns their subscription. Enabling twice returns the same subscription.
func (m *Manager) Enable() *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub != nil {
		return m.sub
	}

	handlers := []struct {
		t  EventType
		fn Listener
	}{
		{EventFocus, m.onFocus},
		{EventClick, m.onPoint},
		{EventMouseOver, m.onPoint},
		{EventInput, m.onInput},
		{EventChange, m.onChange},
	}

	sub := &Subscription{doc: m.doc}
	for _, h := range handlers {
		id := m.doc.AddListener(h.t, h.fn)
		sub.regs = append(sub.regs, Registration{Type: h.t, ID: id, Attached: true})
	}
	m.sub = sub
	log.Debug("Screen reader listeners attached", "count", len(sub.regs))
	return sub
}

// Disable disposes the current subscription, if any.
func (m *Manager) Disable() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Dispose()
		log.Debug("Screen reader listeners detached")
	}
}

// Sync enables or disables to match on. It does nothing when the manager
// is already in that state.
func (m *Manager) Sync(on bool) {
	if on == m.Enabled() {
		return
	}
	if on {
		m.Enable()
		return
	}
	m.Disable()
}

// Enabled reports whether a subscription is attached.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sub != nil
}

func (m *Manager) announce(text string, source a11y.Source) {
	if m.announcer == nil {
		return
	}
	m.announcer.Announce(text, source, a11y.PriorityNormal)
}

func (m *Manager) onFocus(e Event) {
	if text := m.doc.Describe(e.Target); text != "" {
		m.announce("Focused on: "+text, a11y.SourceAmbient)
	}
}

func (m *Manager) onPoint(e Event) {
	text := m.doc.Describe(e.Target)
	if text == "" || utf8.RuneCountInString(text) >= MaxHoverRunes {
		return
	}
	m.announce(text, a11y.SourceAmbient)
}

func (m *Manager) onInput(e Event) {
	el := e.Target
	if !el.IsTextEntry() || strings.TrimSpace(el.Value) == "" {
		return
	}
	m.announce("Typing in "+m.doc.Label(el)+": "+el.Value, a11y.SourceTyping)
}

func (m *Manager) onChange(e Event) {
	el := e.Target
	if el == nil {
		return
	}
	switch {
	case el.Tag == TagSelect:
		m.announce("Selection changed to: "+el.Value, a11y.SourceToggle)
	case el.Tag == TagInput && el.Type == InputCheckbox:
		state := "unchecked"
		if el.Checked {
			state = "checked"
		}
		m.announce(m.doc.Label(el)+" "+state, a11y.SourceToggle)
	case el.Tag == TagInput && el.Type == InputRange:
		m.announce(m.doc.Label(el)+" set to "+el.Value, a11y.SourceToggle)
	}
}
