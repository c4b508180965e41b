// Package visual applies presentation preferences (contrast, colorblind
// filters, zoom, motion and dark mode) to a root class list and keeps the
// preference record consistent while doing so.
package visual

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/inclove/inclove/internal/a11y"
)

// Presentation classes.
const (
	ClassHighContrast = "high-contrast"
	ClassReduceMotion = "reduce-motion"
	ClassDarkMode     = "dark-mode"

	colorBlindPrefix = "colorblind-"
	zoomPrefix       = "zoom-"
)

// ColorBlindClass returns the class for mode, or "" for none.
func ColorBlindClass(mode a11y.ColorBlindMode) string {
	if mode == a11y.ColorBlindNone || !mode.Valid() {
		return ""
	}
	return colorBlindPrefix + string(mode)
}

// ZoomClass returns the class for zoom index i.
func ZoomClass(i int) string {
	return zoomPrefix + a11y.ZoomName(i)
}

// Root is the presentation root's class list.
type Root interface {
	Add(class string)
	Remove(class string)
	Has(class string) bool
}

// Saver persists the preference record.
type Saver interface {
	Save(p a11y.Preferences) error
}

// Announcer publishes confirmation text.
type Announcer interface {
	Announce(text string, source a11y.Source, priority a11y.Priority)
}

// MotionListener is told when reduced motion changes.
type MotionListener interface {
	SetReduceMotion(on bool)
}

// Controller owns the single preference record and mirrors its visual
// fields onto the root.
type Controller struct {
	mu sync.Mutex

	root      Root
	store     Saver
	announcer Announcer
	listeners []MotionListener

	prefs a11y.Preferences
}

// New creates a controller holding p and applies it to root.
func New(root Root, store Saver, announcer Announcer, p a11y.Preferences) *Controller {
	c := &Controller{
		root:      root,
		store:     store,
		announcer: announcer,
		prefs:     p.Normalize(),
	}
	c.applyLocked()
	return c
}

// AddMotionListener registers l and tells it the current state.
func (c *Controller) AddMotionListener(l MotionListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	on := c.prefs.ReduceMotion
	c.mu.Unlock()
	l.SetReduceMotion(on)
}

// Prefs returns a copy of the current preferences.
func (c *Controller) Prefs() a11y.Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// Apply replaces the record without saving or announcing. Used for the
// initial load and for externally reloaded preferences.
func (c *Controller) Apply(p a11y.Preferences) {
	c.mu.Lock()
	prev := c.prefs.ReduceMotion
	c.prefs = p.Normalize()
	c.applyLocked()
	on := c.prefs.ReduceMotion
	listeners := c.listeners
	c.mu.Unlock()

	if on != prev {
		for _, l := range listeners {
			l.SetReduceMotion(on)
		}
	}
}

// Update changes the record with fn, re-applies the classes and saves.
// It reports whether anything changed. The classes are re-applied even when
// nothing changed; only the save is skipped then. Nothing is announced.
func (c *Controller) Update(fn func(p *a11y.Preferences)) (a11y.Preferences, bool) {
	c.mu.Lock()
	next := c.prefs
	fn(&next)
	next = next.Normalize()
	if next == c.prefs {
		c.applyLocked()
		c.mu.Unlock()
		return next, false
	}
	motionChanged := next.ReduceMotion != c.prefs.ReduceMotion
	c.prefs = next
	c.applyLocked()
	listeners := c.listeners
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(next); err != nil {
			log.Error("Failed to save accessibility preferences", "error", err)
		}
	}
	if motionChanged {
		for _, l := range listeners {
			l.SetReduceMotion(next.ReduceMotion)
		}
	}
	return next, true
}

func (c *Controller) set(fn func(p *a11y.Preferences), text func(p a11y.Preferences) string) {
	p, changed := c.Update(fn)
	if !changed || c.announcer == nil {
		return
	}
	c.announcer.Announce(text(p), a11y.SourceToggle, a11y.PriorityNormal)
}

// SetHighContrast turns high contrast on or off. Turning it on clears any
// colorblind mode.
func (c *Controller) SetHighContrast(on bool) {
	c.set(func(p *a11y.Preferences) {
		p.HighContrast = on
		if on {
			p.ColorBlind = a11y.ColorBlindNone
		}
	}, func(p a11y.Preferences) string {
		return a11y.EnabledText("High contrast", p.HighContrast)
	})
}

// SetColorBlindMode selects a colorblind filter. Any mode other than none
// turns high contrast off.
func (c *Controller) SetColorBlindMode(mode a11y.ColorBlindMode) error {
	if !mode.Valid() {
		return a11y.NewError(a11y.ErrorCodeMalformedState, fmt.Sprintf("unknown colorblind mode %q", mode), nil)
	}
	c.set(func(p *a11y.Preferences) {
		p.ColorBlind = mode
		if mode != a11y.ColorBlindNone {
			p.HighContrast = false
		}
	}, func(p a11y.Preferences) string {
		if p.ColorBlind == a11y.ColorBlindNone {
			return "Colorblind mode disabled"
		}
		return "Colorblind mode " + string(p.ColorBlind)
	})
	return nil
}

// CycleColorBlindMode advances to the next colorblind mode.
func (c *Controller) CycleColorBlindMode() a11y.ColorBlindMode {
	next := c.Prefs().ColorBlind.Next()
	_ = c.SetColorBlindMode(next)
	return next
}

// SetZoom sets the zoom index, clamped to the scale.
func (c *Controller) SetZoom(i int) {
	c.set(func(p *a11y.Preferences) {
		p.Zoom = a11y.ClampZoom(i)
	}, zoomText)
}

// ZoomIn moves one step up the scale; at the top it does nothing.
func (c *Controller) ZoomIn() {
	c.SetZoom(c.Prefs().Zoom + 1)
}

// ZoomOut moves one step down the scale; at the bottom it does nothing.
func (c *Controller) ZoomOut() {
	c.SetZoom(c.Prefs().Zoom - 1)
}

// ResetZoom returns to the normal step.
func (c *Controller) ResetZoom() {
	c.SetZoom(a11y.ZoomNormal)
}

func zoomText(p a11y.Preferences) string {
	return fmt.Sprintf("Zoom level %s (%d percent)", a11y.ZoomName(p.Zoom), a11y.ZoomPercent(p.Zoom))
}

// SetReduceMotion turns reduced motion on or off.
func (c *Controller) SetReduceMotion(on bool) {
	c.set(func(p *a11y.Preferences) {
		p.ReduceMotion = on
	}, func(p a11y.Preferences) string {
		return a11y.EnabledText("Reduced motion", p.ReduceMotion)
	})
}

// SetDarkMode turns dark mode on or off.
func (c *Controller) SetDarkMode(on bool) {
	c.set(func(p *a11y.Preferences) {
		p.DarkMode = on
	}, func(p a11y.Preferences) string {
		return a11y.EnabledText("Dark mode", p.DarkMode)
	})
}

// applyLocked mirrors c.prefs onto the root. Callers hold c.mu.
func (c *Controller) applyLocked() {
	if c.root == nil {
		return
	}
	p := c.prefs

	toggle(c.root, ClassHighContrast, p.HighContrast)
	toggle(c.root, ClassReduceMotion, p.ReduceMotion)
	toggle(c.root, ClassDarkMode, p.DarkMode)

	for _, mode := range a11y.ColorBlindModes {
		if class := ColorBlindClass(mode); class != "" {
			toggle(c.root, class, mode == p.ColorBlind)
		}
	}
	for i := a11y.ZoomMin; i <= a11y.ZoomMax; i++ {
		toggle(c.root, ZoomClass(i), i == p.Zoom)
	}
}

func toggle(root Root, class string, on bool) {
	if on {
		root.Add(class)
		return
	}
	root.Remove(class)
}
