package a11y

import "testing"

func TestDefaults(t *testing.T) {
	p := Defaults()
	if p.ScreenReader || p.HighContrast || p.ReduceMotion || p.VoiceCommands || p.DarkMode {
		t.Errorf("Defaults() has a flag enabled: %+v", p)
	}
	if p.ColorBlind != ColorBlindNone {
		t.Errorf("Defaults().ColorBlind = %q, want none", p.ColorBlind)
	}
	if p.Zoom != ZoomNormal {
		t.Errorf("Defaults().Zoom = %d, want %d", p.Zoom, ZoomNormal)
	}
	if !p.Valid() {
		t.Error("Defaults() should be valid")
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-1000, ZoomMin},
		{-1, ZoomMin},
		{0, 0},
		{2, 2},
		{ZoomMax, ZoomMax},
		{ZoomMax + 1, ZoomMax},
		{1 << 30, ZoomMax},
	}

	for _, tt := range tests {
		if got := ClampZoom(tt.in); got != tt.want {
			t.Errorf("ClampZoom(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestZoomNames(t *testing.T) {
	if got := ZoomName(ZoomNormal); got != "normal" {
		t.Errorf("ZoomName(normal) = %q", got)
	}
	if got := ZoomPercent(ZoomLarge); got != 150 {
		t.Errorf("ZoomPercent(large) = %d, want 150", got)
	}
	if got := ZoomName(99); got != "extra-large" {
		t.Errorf("ZoomName(99) = %q, want extra-large", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Preferences
		want Preferences
	}{
		{
			name: "zoom above range",
			in:   Preferences{ColorBlind: ColorBlindNone, Zoom: 12},
			want: Preferences{ColorBlind: ColorBlindNone, Zoom: ZoomMax},
		},
		{
			name: "unknown colorblind mode",
			in:   Preferences{ColorBlind: "sepia", Zoom: 1},
			want: Preferences{ColorBlind: ColorBlindNone, Zoom: 1},
		},
		{
			name: "high contrast wins over colorblind",
			in:   Preferences{HighContrast: true, ColorBlind: ColorBlindTritanopia, Zoom: 1},
			want: Preferences{HighContrast: true, ColorBlind: ColorBlindNone, Zoom: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
			if tt.in.Valid() {
				t.Error("input should not be valid")
			}
		})
	}
}

func TestColorBlindModeCycle(t *testing.T) {
	m := ColorBlindNone
	seen := map[ColorBlindMode]bool{}
	for range ColorBlindModes {
		seen[m] = true
		m = m.Next()
	}
	if m != ColorBlindNone {
		t.Errorf("cycle should return to none, got %q", m)
	}
	if len(seen) != len(ColorBlindModes) {
		t.Errorf("cycle visited %d modes, want %d", len(seen), len(ColorBlindModes))
	}
}

func TestParseColorBlindMode(t *testing.T) {
	tests := map[string]ColorBlindMode{
		"Deuteranopia": ColorBlindDeuteranopia,
		" protanopia ": ColorBlindProtanopia,
		"monochrome":   ColorBlindMonochrome,
		"":             ColorBlindNone,
		"rainbow":      ColorBlindNone,
	}
	for in, want := range tests {
		if got := ParseColorBlindMode(in); got != want {
			t.Errorf("ParseColorBlindMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		source   Source
		expected string
	}{
		{SourceToggle, "toggle"},
		{SourceTyping, "typing"},
		{SourceNavigation, "navigation"},
		{SourceVoice, "voice"},
		{SourceAmbient, "ambient"},
		{Source(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.source.String(); got != tt.expected {
			t.Errorf("Source.String() = %v, want %v", got, tt.expected)
		}
	}
}

func TestEnabledText(t *testing.T) {
	if got := EnabledText("High contrast", true); got != "High contrast enabled" {
		t.Errorf("EnabledText(true) = %q", got)
	}
	if got := EnabledText("High contrast", false); got != "High contrast disabled" {
		t.Errorf("EnabledText(false) = %q", got)
	}
}
