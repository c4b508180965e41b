// Package ui provides the terminal pages of inclove: the explore page with
// swipeable profile cards, the messages page and the accessibility panel.
// Every page talks to the shared accessibility runtime.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	te "github.com/muesli/termenv"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/runtime"
	"github.com/inclove/inclove/internal/voice"
)

// Page is a top level screen.
type Page int

const (
	PageExplore Page = iota
	PageMessages
)

func (p Page) String() string {
	return map[Page]string{
		PageExplore:  "explore",
		PageMessages: "messages",
	}[p]
}

// ParsePage parses a page name. The empty name is the explore page.
func ParsePage(s string) (Page, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "explore":
		return PageExplore, nil
	case "messages", "message", "chat":
		return PageMessages, nil
	}
	return PageExplore, fmt.Errorf("unknown page %q: use explore or messages", s)
}

// NewProgram returns a new Tea program wired to rt. Runtime events reach the
// program through bridge, which must also be the runtime's live region and
// voice status sink.
func NewProgram(cfg Config, rt *runtime.Runtime, bridge *Bridge) *tea.Program {
	log.Debug(
		"Starting inclove",
		"page",
		cfg.Page,
		"glamour",
		cfg.GlamourEnabled,
	)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	m := newModel(cfg, rt, bridge)
	p := tea.NewProgram(m, opts...)
	bridge.Attach(p)
	rt.SetActions(bridge)
	return p
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	rt     *runtime.Runtime
	bridge *Bridge
	width  int
	height int
}

func (c *commonModel) theme() theme {
	return newTheme(c.rt.Prefs())
}

// glamourStyle picks the card style. High contrast and monochrome render
// without color; dark mode forces the dark style.
func (c *commonModel) glamourStyle() string {
	p := c.rt.Prefs()
	switch {
	case p.HighContrast || p.ColorBlind == a11y.ColorBlindMonochrome:
		return styles.NoTTYStyle
	case p.DarkMode:
		return styles.DarkStyle
	}
	return c.cfg.GlamourStyle
}

type model struct {
	common    *commonModel
	page      Page
	panelOpen bool
	showHelp  bool
	fatalErr  error

	explore  exploreModel
	messages messagesModel
	panel    panelModel

	// cmds collects commands raised by page actions during one Update.
	cmds []tea.Cmd
}

// Compile-time interface check.
var _ runtime.KeyActions = (*model)(nil)

func newModel(cfg Config, rt *runtime.Runtime, bridge *Bridge) model {
	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle {
		if te.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}

	common := &commonModel{cfg: cfg, rt: rt, bridge: bridge, width: 80, height: 24}
	m := model{
		common:   common,
		explore:  newExploreModel(common),
		messages: newMessagesModel(common),
		panel:    newPanelModel(common),
	}

	page, err := ParsePage(cfg.Page)
	if err != nil {
		m.fatalErr = err
	}
	m.page = page
	if page == PageMessages {
		m.cmds = append(m.cmds, m.messages.focusCompose())
	}
	return m
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called", "page", m.page)
	return tea.Batch(append(m.cmds, tea.SetWindowTitle("INCLOVE"))...)
}

func (m *model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.cmds = append(m.cmds, cmd)
	}
}

func (m *model) flush() tea.Cmd {
	cmds := m.cmds
	m.cmds = nil
	cmds = append(cmds, m.explore.ensureRendered())
	return tea.Batch(cmds...)
}

func (m model) inTextInput() bool {
	return m.page == PageMessages && m.messages.inTextInput()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.cmds = nil

	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height

	case voiceCommandMsg:
		m.dispatch(msg.cmd)

	case refreshMsg:
		// State lives in the runtime and the bridge; re-render.

	case tea.MouseMsg:
		if m.page == PageExplore && !m.panelOpen {
			if m.heartsShown() {
				msg.Y--
			}
			m.explore, cmd = m.explore.update(msg)
		}

	case nextProfileMsg, profileRenderedMsg:
		m.explore, cmd = m.explore.update(msg)

	default:
		if m.page == PageMessages {
			m.messages, cmd = m.messages.update(msg)
		} else if r, ok := msg.(replyMsg); ok {
			m.messages.receive(r)
		}
	}

	m.queue(cmd)
	return m, m.flush()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+z":
		return m, tea.Suspend
	}

	// Page keys are off while the panel has focus; the panel gets them.
	if m.panelOpen {
		if !m.common.rt.HandleKey(key, true, &m) {
			m.panel = m.panel.update(msg)
		}
		return m, m.flush()
	}

	inText := m.inTextInput()
	if m.common.rt.HandleKey(key, inText, &m) {
		return m, m.flush()
	}

	if key == "f2" {
		m.switchPage()
		return m, m.flush()
	}
	if !inText {
		switch key {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.page {
	case PageExplore:
		switch key {
		case "tab":
			m.explore.moveFocus(1)
		case "shift+tab":
			m.explore.moveFocus(-1)
		case "enter":
			switch m.explore.activate() {
			case controlPass:
				m.Pass()
			case controlMessage:
				m.Message()
			case controlLike:
				m.Like()
			case controlRead:
				m.ReadProfile()
			}
		}
	case PageMessages:
		m.messages, cmd = m.messages.update(msg)
	}
	m.queue(cmd)
	return m, m.flush()
}

func (m *model) switchPage() {
	if m.page == PageExplore {
		m.page = PageMessages
		m.explore.blur()
		m.queue(m.messages.focusCompose())
		m.common.rt.Announce("Navigating to messages", a11y.SourceNavigation, a11y.PriorityNormal)
		return
	}
	m.page = PageExplore
	m.messages.blur()
	m.common.rt.Announce("Navigating to explore", a11y.SourceNavigation, a11y.PriorityNormal)
}

func (m *model) dispatch(cmd voice.Command) {
	switch cmd {
	case voice.CommandLike:
		m.Like()
	case voice.CommandPass:
		m.Pass()
	case voice.CommandMessage:
		m.Message()
	case voice.CommandRead:
		m.ReadProfile()
	}
}

// Like likes the current profile.
func (m *model) Like() {
	if m.page == PageExplore {
		m.queue(m.explore.like())
	}
}

// Pass passes on the current profile.
func (m *model) Pass() {
	if m.page == PageExplore {
		m.queue(m.explore.pass())
	}
}

// Message opens a chat with the current profile, or focuses the draft on
// the messages page.
func (m *model) Message() {
	if m.page == PageMessages {
		m.queue(m.messages.focusCompose())
		return
	}
	name := m.explore.current().Name
	m.common.rt.Announce("Opening chat with "+name, a11y.SourceNavigation, a11y.PriorityNormal)
	m.page = PageMessages
	m.explore.blur()
	m.queue(m.messages.open(name))
}

// ReadProfile reads the current profile aloud.
func (m *model) ReadProfile() {
	if m.page == PageExplore {
		m.explore.readProfile()
	}
}

// TogglePanel opens or closes the accessibility panel.
func (m *model) TogglePanel() {
	m.panelOpen = !m.panelOpen
	m.common.rt.Announce(panelText(m.panelOpen), a11y.SourceToggle, a11y.PriorityNormal)
	if m.panelOpen {
		m.panel.focusRow()
	}
}

// ClosePanel closes the accessibility panel and reports whether it was open.
func (m *model) ClosePanel() bool {
	if !m.panelOpen {
		return false
	}
	m.panelOpen = false
	m.common.rt.Announce(panelText(false), a11y.SourceToggle, a11y.PriorityNormal)
	return true
}

func panelText(open bool) string {
	if open {
		return "Accessibility panel opened"
	}
	return "Accessibility panel closed"
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	t := m.common.theme()
	width := m.common.width

	var body string
	switch m.page {
	case PageMessages:
		body = m.messages.view()
	default:
		body = m.explore.view()
	}
	if m.panelOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.panel.view())
	}

	var b strings.Builder
	if m.heartsShown() {
		body = heartsView(m.common.bridge.Hearts(), width) + "\n" + body
	}

	var help string
	if m.showHelp {
		help = m.helpView()
	}

	// Pin the status bar to the bottom.
	used := lipgloss.Height(body) + 1
	if help != "" {
		used += lipgloss.Height(help)
	}
	if gap := m.common.height - used; gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	b.WriteString(t.page.Width(width).Render(body))
	b.WriteString("\n")
	m.statusBarView(&b)
	if help != "" {
		b.WriteString("\n" + help)
	}
	return b.String()
}

// heartsShown reports whether the hearts line sits above the page.
func (m model) heartsShown() bool {
	return m.page == PageExplore && heartsView(m.common.bridge.Hearts(), m.common.width) != ""
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
