package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/announce"
	"github.com/inclove/inclove/internal/decor"
	"github.com/inclove/inclove/internal/voice"
)

// Bridge carries runtime events into a running program. It is the visible
// live region, the voice status sink, the hearts observer and the voice
// command target. Runtime callbacks fire on timer goroutines or inside
// Update, so events are queued and a single goroutine sends them in order.
type Bridge struct {
	region announce.Region

	mu      sync.Mutex
	status  string
	hearts  []decor.Heart
	pending []tea.Msg
	started bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

// Compile-time interface checks.
var (
	_ announce.LiveRegion = (*Bridge)(nil)
	_ a11y.Actions        = (*Bridge)(nil)
)

// sender is the part of *tea.Program the bridge delivers to.
type sender interface {
	Send(msg tea.Msg)
}

// refreshMsg asks the program to re-read runtime state.
type refreshMsg struct{}

// voiceCommandMsg carries a recognized voice command to the active page.
type voiceCommandMsg struct{ cmd voice.Command }

// NewBridge returns an unattached bridge. Events before Attach are queued
// and delivered once a program is attached.
func NewBridge() *Bridge {
	return &Bridge{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Attach starts delivering events to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p)
}

func (b *Bridge) attach(s sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true
	go b.forward(s)
}

// Close stops delivery. Queued events are discarded.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) forward(s sender) {
	for {
		b.mu.Lock()
		msgs := b.pending
		b.pending = nil
		b.mu.Unlock()

		for _, msg := range msgs {
			select {
			case <-b.done:
				return
			default:
			}
			s.Send(msg)
		}

		select {
		case <-b.wake:
		case <-b.done:
			return
		}
	}
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	// back to back refreshes collapse into one
	if _, ok := msg.(refreshMsg); ok && len(b.pending) > 0 {
		if _, last := b.pending[len(b.pending)-1].(refreshMsg); last {
			b.mu.Unlock()
			return
		}
	}
	b.pending = append(b.pending, msg)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// SetText updates the live region.
func (b *Bridge) SetText(text string) {
	b.region.SetText(text)
	b.send(refreshMsg{})
}

// Text returns the live region text.
func (b *Bridge) Text() string {
	return b.region.Text()
}

// History returns every text the live region has shown.
func (b *Bridge) History() []string {
	return b.region.History()
}

// VoiceStatus records the voice command status line.
func (b *Bridge) VoiceStatus(status string) {
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
	b.send(refreshMsg{})
}

// Status returns the last voice command status line.
func (b *Bridge) Status() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// HeartsChanged records the floating hearts.
func (b *Bridge) HeartsChanged(hearts []decor.Heart) {
	b.mu.Lock()
	b.hearts = hearts
	b.mu.Unlock()
	b.send(refreshMsg{})
}

// Hearts returns the floating hearts.
func (b *Bridge) Hearts() []decor.Heart {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hearts
}

func (b *Bridge) Like()        { b.send(voiceCommandMsg{voice.CommandLike}) }
func (b *Bridge) Pass()        { b.send(voiceCommandMsg{voice.CommandPass}) }
func (b *Bridge) Message()     { b.send(voiceCommandMsg{voice.CommandMessage}) }
func (b *Bridge) ReadProfile() { b.send(voiceCommandMsg{voice.CommandRead}) }
