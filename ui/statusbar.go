package ui

import (
	"fmt"
	"sort"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/decor"
)

const ellipsis = "…"

func logoView(t theme) string {
	return t.statusMessage.Bold(true).Render(" ♥ INCLOVE ")
}

// statusBarView draws the live region on the left and the voice status and
// zoom on the right. The live region is the visible announcement channel.
func (m model) statusBarView(b *strings.Builder) {
	t := m.common.theme()
	p := m.common.rt.Prefs()
	width := m.common.width

	logo := logoView(t)

	var right string
	if p.VoiceCommands {
		right = t.statusVoice.Render(" 🎤 " + m.common.bridge.Status() + " ")
	}
	right += t.statusBar.Render(fmt.Sprintf(" %d%% ", a11y.ZoomPercent(p.Zoom)))
	right += t.statusBar.Render(" alt+a ♿ ? help ")

	text := m.common.bridge.Text()
	noteStyle := t.statusBar
	if text != "" {
		noteStyle = t.statusMessage
	}
	note := truncate.StringWithTail(" "+text+" ", uint(max(0, //nolint:gosec
		width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(right),
	)), ellipsis)
	note = noteStyle.Render(note)

	padding := max(0,
		width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(right),
	)
	emptySpace := noteStyle.Render(strings.Repeat(" ", padding))

	fmt.Fprintf(b, "%s%s%s%s", logo, note, emptySpace, right)
}

// heartsView places the floating hearts along one line by their horizontal
// offset. Hearts that would overlap are skipped.
func heartsView(hearts []decor.Heart, width int) string {
	if len(hearts) == 0 || width <= 0 {
		return ""
	}
	sorted := make([]decor.Heart, len(hearts))
	copy(sorted, hearts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Left < sorted[j].Left })

	var b strings.Builder
	col := 0
	for _, h := range sorted {
		at := int(h.Left * float64(width-2) / 100)
		w := runewidth.StringWidth(h.Emoji)
		if at < col || at+w > width {
			continue
		}
		b.WriteString(strings.Repeat(" ", at-col))
		b.WriteString(h.Emoji)
		col = at + w
	}
	return b.String()
}

func (m model) helpView() (s string) {
	col1 := []string{
		"alt+a   accessibility panel",
		"alt+s   screen reader",
		"alt+c   high contrast",
		"alt+v   voice commands",
		"+/-/0   zoom in/out/reset",
		"tab     next control",
	}
	col2 := []string{
		"←   pass",
		"→   like",
		"↑   message",
		"␣   read profile aloud",
		"F2  switch page",
		"q   quit",
	}

	s += "\n"
	for i := range col1 {
		s += fmt.Sprintf("%-30s%s\n", col1[i], col2[i])
	}
	s = indent(strings.TrimRight(s, "\n"), 2)

	// Fill up empty cells with spaces for background coloring
	if m.common.width > 0 {
		lines := strings.Split(s, "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(m.common.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}
		s = strings.Join(lines, "\n")
	}

	return m.common.theme().help.Render(s)
}
