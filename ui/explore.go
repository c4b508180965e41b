package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/dom"
	"github.com/inclove/inclove/internal/speech"
)

// transitionDelay is how long a liked or passed card stays before the next
// one is shown.
const transitionDelay = 500 * time.Millisecond

type nextProfileMsg struct{}

type profileRenderedMsg struct {
	key     renderKey
	content string
}

type renderKey struct {
	index int
	width int
	style string
}

// Explore page controls, in focus order.
const (
	controlPass = iota
	controlMessage
	controlLike
	controlRead
)

type exploreModel struct {
	common        *commonModel
	profiles      []profile
	index         int
	transitioning bool

	controls []*dom.Element
	heading  *dom.Element
	bio      *dom.Element
	focus    int // -1 when no control has focus
	hovered  *dom.Element

	rendered    string
	renderedKey renderKey
	rendering   bool
}

func newExploreModel(common *commonModel) exploreModel {
	m := exploreModel{
		common:   common,
		profiles: sampleProfiles,
		focus:    -1,
		controls: []*dom.Element{
			{Tag: dom.TagButton, ID: "pass", Text: "Pass"},
			{Tag: dom.TagButton, ID: "message", Text: "Message"},
			{Tag: dom.TagButton, ID: "like", Text: "Like"},
			{Tag: dom.TagButton, ID: "read-profile", AriaLabel: "Read profile aloud", Text: "Read"},
		},
		heading: &dom.Element{Tag: dom.TagH2, ID: "profile-name"},
		bio:     &dom.Element{Tag: dom.TagDiv, ID: "profile-bio"},
	}
	common.rt.Document().Append(m.heading, m.bio)
	common.rt.Document().Append(m.controls...)
	m.syncElements()
	return m
}

func (m exploreModel) current() profile {
	return m.profiles[m.index]
}

func (m *exploreModel) syncElements() {
	p := m.current()
	m.heading.Text = fmt.Sprintf("%s, %d", p.Name, p.Age)
	m.bio.Text = speech.Speakable(p.Bio)
}

// readText is spoken when the profile is read aloud.
func (m exploreModel) readText() string {
	p := m.current()
	return fmt.Sprintf("Profile of %s, age %d. Biography: %s Interests include: %s. Community rating: %s. Use arrow keys or voice commands to interact.",
		p.Name, p.Age, speech.Speakable(p.Bio), strings.Join(p.Interests, ", "), ratingText(p.Rating))
}

func (m *exploreModel) like() tea.Cmd {
	if m.transitioning {
		return nil
	}
	m.transitioning = true
	m.common.rt.Announce("You liked "+m.current().Name, a11y.SourceNavigation, a11y.PriorityNormal)
	return tea.Tick(transitionDelay, func(time.Time) tea.Msg { return nextProfileMsg{} })
}

func (m *exploreModel) pass() tea.Cmd {
	if m.transitioning {
		return nil
	}
	m.transitioning = true
	m.common.rt.Announce("You passed on "+m.current().Name, a11y.SourceNavigation, a11y.PriorityNormal)
	return tea.Tick(transitionDelay, func(time.Time) tea.Msg { return nextProfileMsg{} })
}

func (m *exploreModel) readProfile() {
	m.common.rt.Announce(m.readText(), a11y.SourceVoice, a11y.PriorityInterrupt)
}

func (m *exploreModel) next() {
	m.index = (m.index + 1) % len(m.profiles)
	m.transitioning = false
	m.syncElements()
	if m.common.rt.Prefs().ScreenReader {
		m.readProfile()
	}
}

// moveFocus shifts focus by delta and narrates the newly focused control.
func (m *exploreModel) moveFocus(delta int) {
	n := len(m.controls)
	if m.focus < 0 {
		if delta > 0 {
			m.focus = 0
		} else {
			m.focus = n - 1
		}
	} else {
		m.focus = (m.focus + delta + n) % n
	}
	m.common.rt.Document().Dispatch(dom.Event{Type: dom.EventFocus, Target: m.controls[m.focus]})
}

func (m *exploreModel) blur() {
	m.focus = -1
}

// hover narrates the element under the pointer once per entry.
func (m *exploreModel) hover(el *dom.Element) {
	if el == m.hovered {
		return
	}
	m.hovered = el
	if el != nil {
		m.common.rt.Document().Dispatch(dom.Event{Type: dom.EventMouseOver, Target: el})
	}
}

// activate clicks the focused control and returns which one it was.
func (m *exploreModel) activate() int {
	if m.focus < 0 {
		return -1
	}
	m.common.rt.Document().Dispatch(dom.Event{Type: dom.EventClick, Target: m.controls[m.focus]})
	return m.focus
}

func (m exploreModel) update(msg tea.Msg) (exploreModel, tea.Cmd) {
	switch msg := msg.(type) {
	case nextProfileMsg:
		m.next()
	case profileRenderedMsg:
		m.rendering = false
		if msg.key == m.renderKey() {
			m.rendered = msg.content
			m.renderedKey = msg.key
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion {
			m.hover(m.elementAt(msg.X, msg.Y))
		}
	}
	return m, m.ensureRendered()
}

// elementAt maps a cell to the card or a control. The card starts below
// the one line header.
func (m exploreModel) elementAt(x, y int) *dom.Element {
	cardHeight := lipgloss.Height(m.cardView())
	switch {
	case y >= 1 && y < 1+cardHeight:
		return m.bio
	case y == 1+cardHeight+1:
		col := 0
		for _, c := range m.controls {
			w := lipgloss.Width(controlLabel(c)) + 2
			if x >= col && x < col+w {
				return c
			}
			col += w + 1
		}
	}
	return nil
}

func (m exploreModel) renderKey() renderKey {
	t := m.common.theme()
	return renderKey{
		index: m.index,
		width: t.wrapWidth(m.contentWidth()),
		style: m.common.glamourStyle(),
	}
}

func (m exploreModel) contentWidth() int {
	w := m.common.width - 4
	if maxW := int(m.common.cfg.GlamourMaxWidth); maxW > 0 { //nolint:gosec
		w = min(w, maxW)
	}
	return max(w, 20)
}

// ensureRendered starts a render when the card is stale.
func (m *exploreModel) ensureRendered() tea.Cmd {
	key := m.renderKey()
	if m.rendering || (key == m.renderedKey && m.rendered != "") {
		return nil
	}
	m.rendering = true
	markdown := m.current().markdown()
	enabled := m.common.cfg.GlamourEnabled
	return func() tea.Msg {
		if !enabled {
			return profileRenderedMsg{key, wordwrap.String(markdown, key.width)}
		}
		out, err := glamourRender(markdown, key.style, key.width)
		if err != nil {
			log.Error("error rendering with Glamour", "error", err)
			out = wordwrap.String(markdown, key.width)
		}
		return profileRenderedMsg{key, out}
	}
}

func glamourRender(markdown, style string, width int) (string, error) {
	styleOption := glamour.WithStylePath(style)
	if _, ok := styles.DefaultStyles[style]; ok {
		styleOption = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("error creating glamour renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

func controlLabel(c *dom.Element) string {
	switch c.ID {
	case "pass":
		return "← Pass"
	case "message":
		return "↑ Message"
	case "like":
		return "Like →"
	default:
		return "␣ Read"
	}
}

func (m exploreModel) cardView() string {
	t := m.common.theme()
	body := m.rendered
	if body == "" {
		body = t.subtle.Render("Loading profile…")
	}
	return t.card.Width(m.contentWidth()).Render(body)
}

func (m exploreModel) view() string {
	t := m.common.theme()
	var b strings.Builder

	title := t.title.Render("Discover")
	if m.transitioning {
		title += " " + t.subtle.Render("…")
	}
	fmt.Fprintf(&b, "%s\n%s\n\n", title, m.cardView())

	buttons := make([]string, len(m.controls))
	for i, c := range m.controls {
		label := " " + controlLabel(c) + " "
		switch {
		case i == m.focus:
			buttons[i] = t.focused.Render(label)
		case i == controlLike:
			buttons[i] = t.like.Render(label)
		case i == controlPass:
			buttons[i] = t.pass.Render(label)
		default:
			buttons[i] = t.accent.Render(label)
		}
	}
	b.WriteString(strings.Join(buttons, " "))
	return b.String()
}
