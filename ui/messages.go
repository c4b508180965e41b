package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sahilm/fuzzy"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/dom"
)

// replyDelay is how long the simulated match takes to answer.
const replyDelay = 1500 * time.Millisecond

var cannedReplies = []string{
	"That sounds wonderful! I'd love to learn more about that.",
	"Thank you for sharing! Your perspective is really interesting.",
	"I completely understand. Thanks for being so open with me.",
}

// emotions are quick reactions appended to the draft with alt+1..alt+4.
var emotions = []struct {
	emoji string
	label string
}{
	{"💙", "Supportive"},
	{"🌟", "Encouraging"},
	{"🤝", "Understanding"},
	{"😊", "Cheerful"},
}

type chatMessage struct {
	Text     string
	Sent     bool
	At       time.Time
	MediaAlt string
}

type conversation struct {
	Name       string
	LastActive time.Time
	Messages   []chatMessage
}

// firstName is used when the match speaks.
func (c conversation) firstName() string {
	if i := strings.IndexByte(c.Name, ' '); i > 0 {
		return c.Name[:i]
	}
	return c.Name
}

func sampleConversations(now time.Time) []*conversation {
	return []*conversation{{
		Name:       "Sarah Chen",
		LastActive: now.Add(-5 * time.Minute),
		Messages: []chatMessage{
			{Text: "Hi! I saw your profile and loved your photography work! The sunset shots are absolutely beautiful 📸", At: now.Add(-5 * time.Minute)},
			{Text: "Thank you so much! Photography has been my passion for years. I love capturing moments that tell stories. What about you? What brings you joy?", Sent: true, At: now.Add(-4 * time.Minute)},
			{Text: "I'm really into adaptive gardening! I've created a whole system for growing herbs and vegetables that works with my mobility needs. Here's my latest harvest:", At: now.Add(-3 * time.Minute), MediaAlt: "Adaptive garden harvest showing various vegetables"},
		},
	}}
}

type replyMsg struct {
	conv *conversation
	text string
}

type messagesFocus int

const (
	focusCompose messagesFocus = iota
	focusList
	focusFilter
)

type messagesModel struct {
	common *commonModel
	now    func() time.Time
	pick   func(n int) int
	copy   func(string) error

	conversations []*conversation
	current       int
	focus         messagesFocus

	input   textinput.Model
	compose *dom.Element
	filter  textinput.Model
	matches fuzzy.Matches
	cursor  int
}

func newMessagesModel(common *commonModel) messagesModel {
	input := textinput.New()
	input.Placeholder = "Type a message…"
	input.Prompt = "› "
	input.CharLimit = 500

	filter := textinput.New()
	filter.Prompt = "Find: "

	compose := &dom.Element{Tag: dom.TagTextarea, ID: "message-input", Placeholder: input.Placeholder}
	common.rt.Document().Append(
		&dom.Element{Tag: dom.TagLabel, For: "message-input", Text: "Message"},
		compose,
	)

	return messagesModel{
		common:        common,
		now:           time.Now,
		pick:          rand.Intn,
		copy:          clipboard.WriteAll,
		conversations: sampleConversations(time.Now()),
		input:         input,
		compose:       compose,
		filter:        filter,
	}
}

func (m messagesModel) conversation() *conversation {
	return m.conversations[m.current]
}

func (m messagesModel) inTextInput() bool {
	return m.focus == focusCompose || m.focus == focusFilter
}

// open selects the conversation with name, starting one if needed, and
// focuses the draft.
func (m *messagesModel) open(name string) tea.Cmd {
	m.current = -1
	for i, c := range m.conversations {
		if c.Name == name || c.firstName() == name {
			m.current = i
			break
		}
	}
	if m.current < 0 {
		m.conversations = append(m.conversations, &conversation{Name: name, LastActive: m.now()})
		m.current = len(m.conversations) - 1
	}
	return m.focusCompose()
}

func (m *messagesModel) focusCompose() tea.Cmd {
	m.focus = focusCompose
	m.filter.Blur()
	m.common.rt.Document().Dispatch(dom.Event{Type: dom.EventFocus, Target: m.compose})
	return m.input.Focus()
}

func (m *messagesModel) blur() {
	m.input.Blur()
	m.filter.Blur()
	m.focus = focusList
}

func (m *messagesModel) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	conv := m.conversation()
	conv.Messages = append(conv.Messages, chatMessage{Text: text, Sent: true, At: m.now()})
	m.input.Reset()
	m.compose.Value = ""
	m.common.rt.Announce("Message sent: "+text, a11y.SourceNavigation, a11y.PriorityNormal)

	reply := cannedReplies[m.pick(len(cannedReplies))]
	return tea.Tick(replyDelay, func(time.Time) tea.Msg {
		return replyMsg{conv: conv, text: reply}
	})
}

func (m *messagesModel) receive(msg replyMsg) {
	now := m.now()
	msg.conv.Messages = append(msg.conv.Messages, chatMessage{Text: msg.text, At: now})
	msg.conv.LastActive = now
	m.common.rt.Announce(fmt.Sprintf("New message from %s: %s", msg.conv.firstName(), msg.text),
		a11y.SourceNavigation, a11y.PriorityNormal)
}

func (m *messagesModel) addEmotion(i int) {
	e := emotions[i]
	m.input.SetValue(strings.TrimLeft(m.input.Value()+" "+e.emoji, " "))
	m.input.CursorEnd()
	m.compose.Value = m.input.Value()
	m.common.rt.Announce(fmt.Sprintf("Added %s emotion to message", e.label), a11y.SourceNavigation, a11y.PriorityNormal)
}

// copyLast puts the last received message on the clipboard.
func (m *messagesModel) copyLast() {
	conv := m.conversation()
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.Sent {
			continue
		}
		if err := m.copy(msg.Text); err != nil {
			log.Warn("Could not copy message", "error", err)
			m.common.rt.Announce("Clipboard unavailable", a11y.SourceNavigation, a11y.PriorityNormal)
			return
		}
		m.common.rt.Announce("Copied message from "+conv.firstName(), a11y.SourceNavigation, a11y.PriorityNormal)
		return
	}
	m.common.rt.Announce("No messages to copy", a11y.SourceNavigation, a11y.PriorityNormal)
}

func (m messagesModel) names() []string {
	names := make([]string, len(m.conversations))
	for i, c := range m.conversations {
		names[i] = c.Name
	}
	return names
}

// filtered returns conversation indices matching the filter, best first.
func (m messagesModel) filtered() []int {
	if strings.TrimSpace(m.filter.Value()) == "" {
		idx := make([]int, len(m.conversations))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, len(m.matches))
	for i, match := range m.matches {
		idx[i] = match.Index
	}
	return idx
}

func (m messagesModel) update(msg tea.Msg) (messagesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		m.receive(msg)
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusCompose:
			return m.updateCompose(msg)
		case focusFilter:
			return m.updateFilter(msg)
		default:
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	if m.focus == focusCompose {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m messagesModel) updateCompose(msg tea.KeyMsg) (messagesModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "enter":
		return m, m.send()
	case "tab", "esc":
		m.blur()
		return m, nil
	case "ctrl+y":
		m.copyLast()
		return m, nil
	case "alt+1", "alt+2", "alt+3", "alt+4":
		m.addEmotion(int(key[len(key)-1] - '1'))
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.compose.Value = value
		m.common.rt.Document().Dispatch(dom.Event{Type: dom.EventInput, Target: m.compose})
	}
	return m, cmd
}

func (m messagesModel) updateList(msg tea.KeyMsg) (messagesModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "enter", "i":
		return m, m.focusCompose()
	case "/":
		m.focus = focusFilter
		m.cursor = 0
		return m, m.filter.Focus()
	case "j", "down":
		m.current = (m.current + 1) % len(m.conversations)
		m.announceConversation()
	case "k":
		m.current = (m.current - 1 + len(m.conversations)) % len(m.conversations)
		m.announceConversation()
	case "y", "ctrl+y":
		m.copyLast()
	}
	return m, nil
}

func (m messagesModel) updateFilter(msg tea.KeyMsg) (messagesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.Reset()
		m.matches = nil
		m.blur()
		return m, nil
	case "enter", "tab":
		if idx := m.filtered(); len(idx) > 0 {
			m.current = idx[min(m.cursor, len(idx)-1)]
		}
		m.filter.Reset()
		m.matches = nil
		m.announceConversation()
		return m, m.focusCompose()
	case "ctrl+n", "down":
		m.cursor++
		return m, nil
	case "ctrl+p", "up":
		m.cursor = max(0, m.cursor-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.matches = fuzzy.Find(m.filter.Value(), m.names())
	if n := len(m.filtered()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m, cmd
}

func (m messagesModel) announceConversation() {
	conv := m.conversation()
	m.common.rt.Announce(fmt.Sprintf("Conversation with %s, active %s", conv.Name, humanize.Time(conv.LastActive)),
		a11y.SourceNavigation, a11y.PriorityNormal)
}

func (m messagesModel) view() string {
	t := m.common.theme()
	width := t.wrapWidth(max(20, m.common.width-4))
	conv := m.conversation()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", t.title.Render(conv.Name), t.subtle.Render("Active "+humanize.Time(conv.LastActive)))

	if m.focus == focusFilter {
		b.WriteString(m.filter.View() + "\n")
		for i, idx := range m.filtered() {
			line := "  " + m.conversations[idx].Name
			if i == m.cursor {
				line = t.focused.Render("> " + m.conversations[idx].Name)
			}
			b.WriteString(line + "\n")
		}
		return b.String()
	}

	for _, msg := range conv.Messages {
		text := msg.Text
		if msg.MediaAlt != "" {
			text += "\n[image: " + msg.MediaAlt + "]"
		}
		text = wordwrap.String(text, width-2)
		stamp := t.subtle.Render(humanize.Time(msg.At))
		if msg.Sent {
			fmt.Fprintf(&b, "%s %s\n%s\n\n", t.accent.Render("You"), stamp, t.sent.Render(text))
		} else {
			fmt.Fprintf(&b, "%s %s\n%s\n\n", t.accent.Render(conv.firstName()), stamp, t.received.Render(text))
		}
	}

	if m.focus == focusCompose {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(t.subtle.Render("tab: write  /: find conversation  j/k: switch  y: copy last message"))
	}
	return b.String()
}
