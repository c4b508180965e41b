package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/inclove/inclove/internal/a11y"
)

var (
	rose     = lipgloss.AdaptiveColor{Light: "#E0457B", Dark: "#FF6B9D"}
	darkRose = lipgloss.AdaptiveColor{Light: "#8E1F4B", Dark: "#8E1F4B"}
	likeFg   = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#89F0CB"}
	passFg   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF7B72"}
	subtleFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}

	statusBarBg = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
	helpBg      = lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#1B1B1B"}

	// Colorblind-safe pairs replacing the green/red like and pass colors.
	colorBlindPalettes = map[a11y.ColorBlindMode][2]lipgloss.TerminalColor{
		a11y.ColorBlindDeuteranopia: {lipgloss.Color("#0072B2"), lipgloss.Color("#E69F00")},
		a11y.ColorBlindProtanopia:   {lipgloss.Color("#56B4E9"), lipgloss.Color("#D55E00")},
		a11y.ColorBlindTritanopia:   {lipgloss.Color("#009E73"), lipgloss.Color("#CC79A7")},
	}

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1F1F1")).
			Background(lipgloss.Color("#FF5F87")).
			Bold(true).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().Foreground(subtleFg)
)

// theme holds the styles derived from the presentation preferences.
type theme struct {
	zoom int // percent

	title   lipgloss.Style
	subtle  lipgloss.Style
	like    lipgloss.Style
	pass    lipgloss.Style
	accent  lipgloss.Style
	focused lipgloss.Style
	card    lipgloss.Style
	page    lipgloss.Style

	statusBar     lipgloss.Style
	statusMessage lipgloss.Style
	statusVoice   lipgloss.Style
	help          lipgloss.Style

	sent     lipgloss.Style
	received lipgloss.Style
}

// newTheme maps preferences to styles. High contrast and monochrome drop
// color and rely on weight and underline instead.
func newTheme(p a11y.Preferences) theme {
	t := theme{zoom: a11y.ZoomPercent(p.Zoom)}

	switch {
	case p.HighContrast:
		fg, bg := lipgloss.Color("#FFFFFF"), lipgloss.Color("#000000")
		base := lipgloss.NewStyle().Foreground(fg).Background(bg)
		t.title = base.Bold(true).Underline(true)
		t.subtle = base
		t.like = base.Bold(true).Underline(true)
		t.pass = base.Bold(true).Underline(true)
		t.accent = base.Bold(true)
		t.focused = lipgloss.NewStyle().Foreground(bg).Background(fg).Bold(true)
		t.card = base.Border(lipgloss.ThickBorder()).BorderForeground(fg)
		t.page = base
		t.statusBar = base
		t.statusMessage = lipgloss.NewStyle().Foreground(bg).Background(fg).Bold(true)
		t.statusVoice = base.Bold(true)
		t.help = base
		t.sent = base.Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(fg)
		t.received = base.Bold(true)
		return t

	case p.ColorBlind == a11y.ColorBlindMonochrome:
		t.title = lipgloss.NewStyle().Bold(true)
		t.subtle = lipgloss.NewStyle().Faint(true)
		t.like = lipgloss.NewStyle().Bold(true)
		t.pass = lipgloss.NewStyle().Underline(true)
		t.accent = lipgloss.NewStyle().Bold(true)
		t.focused = lipgloss.NewStyle().Reverse(true)
		t.card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
		t.page = lipgloss.NewStyle()
		t.statusBar = lipgloss.NewStyle().Reverse(true)
		t.statusMessage = lipgloss.NewStyle().Reverse(true).Bold(true)
		t.statusVoice = lipgloss.NewStyle().Reverse(true).Italic(true)
		t.help = lipgloss.NewStyle().Faint(true)
		t.sent = lipgloss.NewStyle().Italic(true)
		t.received = lipgloss.NewStyle()
		return t
	}

	var like, pass lipgloss.TerminalColor = likeFg, passFg
	if pair, ok := colorBlindPalettes[p.ColorBlind]; ok {
		like, pass = pair[0], pair[1]
	}

	t.title = lipgloss.NewStyle().Foreground(rose).Bold(true)
	t.subtle = subtleStyle
	t.like = lipgloss.NewStyle().Foreground(like).Bold(true)
	t.pass = lipgloss.NewStyle().Foreground(pass).Bold(true)
	t.accent = lipgloss.NewStyle().Foreground(rose)
	t.focused = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(rose).Bold(true)
	t.card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(rose)
	t.page = lipgloss.NewStyle()
	t.statusBar = lipgloss.NewStyle().Foreground(subtleFg).Background(statusBarBg)
	t.statusMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE4EE")).Background(darkRose)
	t.statusVoice = lipgloss.NewStyle().Foreground(like).Background(statusBarBg)
	t.help = lipgloss.NewStyle().Foreground(subtleFg).Background(helpBg)
	t.sent = lipgloss.NewStyle().Foreground(rose)
	t.received = lipgloss.NewStyle()

	if p.DarkMode {
		dark := lipgloss.Color("#121212")
		light := lipgloss.Color("#E8E8E8")
		t.page = lipgloss.NewStyle().Foreground(light).Background(dark)
		t.received = t.received.Foreground(light)
		t.statusBar = t.statusBar.Background(lipgloss.Color("#1E1E1E"))
		t.statusVoice = t.statusVoice.Background(lipgloss.Color("#1E1E1E"))
		t.help = t.help.Background(dark)
	}
	return t
}

// wrapWidth shrinks the text width as zoom grows so that larger steps
// show fewer, wider-spaced words.
func (t theme) wrapWidth(width int) int {
	if t.zoom <= 0 {
		return width
	}
	return max(20, width*100/t.zoom)
}
