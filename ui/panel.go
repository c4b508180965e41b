package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/dom"
)

// panelRow is one setting in the accessibility panel.
type panelRow struct {
	el    *dom.Element
	label string

	// toggle runs on enter or space; left and right fall back to it.
	toggle func()
	left   func()
	right  func()
}

type panelModel struct {
	common *commonModel
	rows   []panelRow
	cursor int
}

func newPanelModel(common *commonModel) panelModel {
	rt := common.rt
	checkbox := func(id, label string, toggle func()) panelRow {
		return panelRow{el: &dom.Element{Tag: dom.TagInput, Type: dom.InputCheckbox, ID: id}, label: label, toggle: toggle}
	}

	options := make([]dom.Option, len(a11y.ColorBlindModes))
	for i, mode := range a11y.ColorBlindModes {
		options[i] = dom.Option{Value: string(mode), Text: colorBlindLabel(mode)}
	}

	rows := []panelRow{
		checkbox("screen-reader", "Screen reader", rt.ToggleScreenReader),
		checkbox("high-contrast", "High contrast", rt.ToggleHighContrast),
		{
			el:     &dom.Element{Tag: dom.TagSelect, ID: "colorblind-mode", Options: options},
			label:  "Colorblind mode",
			toggle: func() { rt.CycleColorBlindMode() },
			left:   func() { _ = rt.SetColorBlindMode(previousMode(rt.Prefs().ColorBlind)) },
		},
		{
			el:     &dom.Element{Tag: dom.TagInput, Type: dom.InputRange, ID: "zoom"},
			label:  "Zoom",
			toggle: rt.ResetZoom,
			left:   rt.ZoomOut,
			right:  rt.ZoomIn,
		},
		checkbox("reduce-motion", "Reduce motion", rt.ToggleReduceMotion),
		checkbox("voice-commands", "Voice commands", func() { _ = rt.ToggleVoiceCommands() }),
		checkbox("dark-mode", "Dark mode", rt.ToggleDarkMode),
	}

	doc := rt.Document()
	for _, r := range rows {
		doc.Append(&dom.Element{Tag: dom.TagLabel, For: r.el.ID, Text: r.label}, r.el)
	}

	m := panelModel{common: common, rows: rows}
	m.sync()
	return m
}

func colorBlindLabel(mode a11y.ColorBlindMode) string {
	if mode == a11y.ColorBlindNone {
		return "Off"
	}
	s := string(mode)
	return strings.ToUpper(s[:1]) + s[1:]
}

func previousMode(mode a11y.ColorBlindMode) a11y.ColorBlindMode {
	modes := a11y.ColorBlindModes
	for i, m := range modes {
		if m == mode {
			return modes[(i-1+len(modes))%len(modes)]
		}
	}
	return a11y.ColorBlindNone
}

// sync copies the preferences into the row elements.
func (m panelModel) sync() {
	p := m.common.rt.Prefs()
	for _, r := range m.rows {
		switch r.el.ID {
		case "screen-reader":
			r.el.Checked = p.ScreenReader
		case "high-contrast":
			r.el.Checked = p.HighContrast
		case "reduce-motion":
			r.el.Checked = p.ReduceMotion
		case "voice-commands":
			r.el.Checked = p.VoiceCommands
		case "dark-mode":
			r.el.Checked = p.DarkMode
		case "zoom":
			r.el.Value = a11y.ZoomName(p.Zoom)
		case "colorblind-mode":
			r.el.Value = string(p.ColorBlind)
			for i, o := range r.el.Options {
				if o.Value == string(p.ColorBlind) {
					r.el.Selected = i
				}
			}
		}
	}
}

func (m *panelModel) focusRow() {
	m.sync()
	m.common.rt.Document().Dispatch(dom.Event{Type: dom.EventFocus, Target: m.rows[m.cursor].el})
}

func (m panelModel) update(msg tea.KeyMsg) panelModel {
	row := m.rows[m.cursor]
	switch msg.String() {
	case "up", "k", "shift+tab":
		m.cursor = (m.cursor - 1 + len(m.rows)) % len(m.rows)
		m.focusRow()
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.rows)
		m.focusRow()
	case "enter", " ", "space":
		row.toggle()
	case "left", "h":
		if row.left != nil {
			row.left()
		} else {
			row.toggle()
		}
	case "right", "l":
		if row.right != nil {
			row.right()
		} else {
			row.toggle()
		}
	}
	m.sync()
	return m
}

func (m panelModel) view() string {
	t := m.common.theme()
	var b strings.Builder
	b.WriteString(t.title.Render("Accessibility") + "\n\n")

	for i, r := range m.rows {
		var value string
		switch r.el.Type {
		case dom.InputCheckbox:
			value = "[ ]"
			if r.el.Checked {
				value = "[x]"
			}
		case dom.InputRange:
			p := m.common.rt.Prefs()
			value = fmt.Sprintf("‹ %s %d%% ›", r.el.Value, a11y.ZoomPercent(p.Zoom))
		default:
			value = "‹ " + r.el.Options[r.el.Selected].Text + " ›"
		}
		line := fmt.Sprintf("%-16s %s", r.label, value)
		if i == m.cursor {
			line = t.focused.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + t.subtle.Render("↑/↓ move  enter toggle  ←/→ adjust  esc close"))
	return t.card.Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}
