// Package a11y contains the shared accessibility vocabulary used by every
// component of the runtime: preferences, announcement requests and the error
// taxonomy. It is a leaf package to keep the component packages free of
// import cycles.
package a11y

import "strings"

// ColorBlindMode selects a colorblind presentation filter.
type ColorBlindMode string

const (
	// ColorBlindNone disables colorblind filtering.
	ColorBlindNone ColorBlindMode = "none"
	// ColorBlindDeuteranopia compensates for green weakness.
	ColorBlindDeuteranopia ColorBlindMode = "deuteranopia"
	// ColorBlindProtanopia compensates for red weakness.
	ColorBlindProtanopia ColorBlindMode = "protanopia"
	// ColorBlindTritanopia compensates for blue weakness.
	ColorBlindTritanopia ColorBlindMode = "tritanopia"
	// ColorBlindMonochrome desaturates everything.
	ColorBlindMonochrome ColorBlindMode = "monochrome"
)

// ColorBlindModes lists every mode in cycling order.
var ColorBlindModes = []ColorBlindMode{
	ColorBlindNone,
	ColorBlindDeuteranopia,
	ColorBlindProtanopia,
	ColorBlindTritanopia,
	ColorBlindMonochrome,
}

// Valid reports whether m is a known mode.
func (m ColorBlindMode) Valid() bool {
	for _, mode := range ColorBlindModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Next returns the mode after m in cycling order.
func (m ColorBlindMode) Next() ColorBlindMode {
	for i, mode := range ColorBlindModes {
		if m == mode {
			return ColorBlindModes[(i+1)%len(ColorBlindModes)]
		}
	}
	return ColorBlindNone
}

// ParseColorBlindMode parses a mode name. Unknown names map to none.
func ParseColorBlindMode(s string) ColorBlindMode {
	m := ColorBlindMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" || !m.Valid() {
		return ColorBlindNone
	}
	return m
}

// Zoom scale indices.
const (
	ZoomSmall = iota
	ZoomNormal
	ZoomMedium
	ZoomLarge
	ZoomExtraLarge

	ZoomMin = ZoomSmall
	ZoomMax = ZoomExtraLarge
)

var zoomNames = [...]string{"small", "normal", "medium", "large", "extra-large"}

var zoomPercents = [...]int{75, 100, 125, 150, 175}

// ClampZoom bounds i to [ZoomMin, ZoomMax].
func ClampZoom(i int) int {
	if i < ZoomMin {
		return ZoomMin
	}
	if i > ZoomMax {
		return ZoomMax
	}
	return i
}

// ZoomName returns the scale step name for index i (clamped).
func ZoomName(i int) string {
	return zoomNames[ClampZoom(i)]
}

// ZoomPercent returns the scale step as a percentage for index i (clamped).
func ZoomPercent(i int) int {
	return zoomPercents[ClampZoom(i)]
}

// Preferences is the flat accessibility preference record. One instance is
// owned by the runtime and persisted on every mutation.
type Preferences struct {
	ScreenReader  bool           `json:"screenReaderEnabled"`
	HighContrast  bool           `json:"highContrastEnabled"`
	ColorBlind    ColorBlindMode `json:"colorBlindMode"`
	Zoom          int            `json:"zoomLevel"`
	ReduceMotion  bool           `json:"reduceMotionEnabled"`
	VoiceCommands bool           `json:"voiceCommandsEnabled"`
	DarkMode      bool           `json:"darkModeEnabled"`
}

// Defaults returns the documented default preferences.
func Defaults() Preferences {
	return Preferences{
		ColorBlind: ColorBlindNone,
		Zoom:       ZoomNormal,
	}
}

// Normalize repairs p so that every invariant holds: zoom is clamped, the
// colorblind mode is known, and high contrast excludes colorblind filtering.
func (p Preferences) Normalize() Preferences {
	p.Zoom = ClampZoom(p.Zoom)
	if !p.ColorBlind.Valid() {
		p.ColorBlind = ColorBlindNone
	}
	if p.HighContrast {
		p.ColorBlind = ColorBlindNone
	}
	return p
}

// Valid reports whether p already satisfies every invariant.
func (p Preferences) Valid() bool {
	return p == p.Normalize()
}

// Source identifies what raised an announcement.
type Source int

const (
	// SourceToggle is an explicit preference toggle.
	SourceToggle Source = iota
	// SourceTyping is keystroke narration; it is debounced.
	SourceTyping
	// SourceNavigation is a page or panel change.
	SourceNavigation
	// SourceVoice is a voice command response.
	SourceVoice
	// SourceAmbient is passive focus or hover narration.
	SourceAmbient
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceToggle:
		return "toggle"
	case SourceTyping:
		return "typing"
	case SourceNavigation:
		return "navigation"
	case SourceVoice:
		return "voice"
	case SourceAmbient:
		return "ambient"
	default:
		return "unknown"
	}
}

// Priority orders competing announcements.
type Priority int

const (
	// PriorityNormal requests are replaced by any newer request.
	PriorityNormal Priority = iota
	// PriorityInterrupt requests cannot be replaced by ambient narration.
	PriorityInterrupt
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	if p == PriorityInterrupt {
		return "interrupt"
	}
	return "normal"
}

// Request is a single announcement. Requests are ephemeral and never
// persisted.
type Request struct {
	Text     string
	Source   Source
	Priority Priority
}

// EnabledText renders the "<feature> enabled|disabled" phrase used by
// toggle announcements.
func EnabledText(feature string, on bool) string {
	if on {
		return feature + " enabled"
	}
	return feature + " disabled"
}
