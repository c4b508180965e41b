package runtime

import "github.com/inclove/inclove/internal/a11y"

// KeyActions are the page operations keyboard shortcuts can reach.
type KeyActions interface {
	a11y.Actions
	TogglePanel()
	// ClosePanel closes the accessibility panel and reports whether it
	// was open.
	ClosePanel() bool
}

// HandleKey runs the shortcut bound to key and reports whether the key was
// consumed. Page keys are ignored while a text input has focus; alt
// shortcuts and escape work everywhere.
func (r *Runtime) HandleKey(key string, inTextInput bool, actions KeyActions) bool {
	switch key {
	case "alt+a":
		actions.TogglePanel()
		return true
	case "alt+c":
		r.ToggleHighContrast()
		return true
	case "alt+s":
		r.ToggleScreenReader()
		return true
	case "alt+v":
		_ = r.ToggleVoiceCommands()
		return true
	case "esc":
		return actions.ClosePanel()
	}

	if inTextInput {
		return false
	}

	switch key {
	case "left":
		actions.Pass()
	case "right":
		actions.Like()
	case "up":
		actions.Message()
	case " ", "space":
		actions.ReadProfile()
	case "+", "=":
		r.ZoomIn()
	case "-":
		r.ZoomOut()
	case "0":
		r.ResetZoom()
	default:
		return false
	}
	return true
}
