package ui

import (
	"strings"
	"testing"

	"github.com/inclove/inclove/internal/a11y"
	"github.com/inclove/inclove/internal/decor"
)

func TestWrapWidthShrinksWithZoom(t *testing.T) {
	tests := []struct {
		zoom int
		want int
	}{
		{a11y.ZoomSmall, 106},
		{a11y.ZoomNormal, 80},
		{a11y.ZoomLarge, 53},
		{a11y.ZoomExtraLarge, 45},
	}
	for _, tt := range tests {
		th := newTheme(a11y.Preferences{Zoom: tt.zoom, ColorBlind: a11y.ColorBlindNone})
		if got := th.wrapWidth(80); got != tt.want {
			t.Errorf("zoom %s: wrapWidth(80) = %d, want %d", a11y.ZoomName(tt.zoom), got, tt.want)
		}
	}

	th := newTheme(a11y.Preferences{Zoom: a11y.ZoomExtraLarge})
	if got := th.wrapWidth(10); got != 20 {
		t.Errorf("wrapWidth(10) = %d, want minimum 20", got)
	}
}

func TestThemeColorBlindPalette(t *testing.T) {
	plain := newTheme(a11y.Defaults())
	for mode, pair := range colorBlindPalettes {
		th := newTheme(a11y.Preferences{ColorBlind: mode})
		if th.like.GetForeground() != pair[0] {
			t.Errorf("%s: like color = %v, want %v", mode, th.like.GetForeground(), pair[0])
		}
		if th.pass.GetForeground() == plain.pass.GetForeground() {
			t.Errorf("%s: pass color should differ from the default", mode)
		}
	}
}

func TestThemeHighContrastUnderlinesActions(t *testing.T) {
	th := newTheme(a11y.Preferences{HighContrast: true})
	if !th.like.GetUnderline() || !th.pass.GetUnderline() {
		t.Error("high contrast should underline like and pass")
	}
	if th.like.GetForeground() != th.pass.GetForeground() {
		t.Error("high contrast should not tell like and pass apart by color")
	}
}

func TestRatingText(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{4.2, "4.2 - Highly Rated"},
		{3.8, "3.8 - Highly Rated"},
		{4.6, "4.6 - Community Favorite"},
		{2.4, "2.4 - Building Connections"},
		{0.2, "0.2 - Getting Started"},
	}
	for _, tt := range tests {
		if got := ratingText(tt.rating); got != tt.want {
			t.Errorf("ratingText(%v) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in      string
		want    Page
		wantErr bool
	}{
		{"", PageExplore, false},
		{"explore", PageExplore, false},
		{" Messages ", PageMessages, false},
		{"chat", PageMessages, false},
		{"settings", PageExplore, true},
	}
	for _, tt := range tests {
		got, err := ParsePage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePage(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestHeartsView(t *testing.T) {
	hearts := []decor.Heart{
		{ID: 2, Emoji: "+", Left: 50},
		{ID: 1, Emoji: "*", Left: 0},
		{ID: 3, Emoji: "!", Left: 1}, // lands on the first heart
	}
	got := heartsView(hearts, 22)
	want := "*" + strings.Repeat(" ", 9) + "+"
	if got != want {
		t.Errorf("heartsView() = %q, want %q", got, want)
	}
	if heartsView(nil, 80) != "" {
		t.Error("no hearts should render nothing")
	}
}

func TestPreviousMode(t *testing.T) {
	for _, mode := range a11y.ColorBlindModes {
		if got := previousMode(mode.Next()); got != mode {
			t.Errorf("previousMode(%s.Next()) = %s", mode, got)
		}
	}
	if colorBlindLabel(a11y.ColorBlindNone) != "Off" {
		t.Error("none should be labelled Off")
	}
	if colorBlindLabel(a11y.ColorBlindTritanopia) != "Tritanopia" {
		t.Error("modes should be capitalized")
	}
}
