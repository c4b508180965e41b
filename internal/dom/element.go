package dom

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Element tags.
const (
	TagInput    = "input"
	TagTextarea = "textarea"
	TagButton   = "button"
	TagSelect   = "select"
	TagLabel    = "label"
	TagH1       = "h1"
	TagH2       = "h2"
	TagH3       = "h3"
	TagDiv      = "div"
	TagSpan     = "span"
)

// Input types with dedicated narration.
const (
	InputCheckbox = "checkbox"
	InputRange    = "range"
	InputText     = "text"
)

// Option is a select option.
type Option struct {
	Value string
	Text  string
}

// Element is a node in the document.
type Element struct {
	Tag         string
	Type        string // input type
	ID          string
	For         string // label target id
	AriaLabel   string
	Text        string
	Placeholder string
	Value       string
	Checked     bool
	Options     []Option
	Selected    int
	Parent      *Element
}

// IsTextEntry reports whether e accepts free text.
func (e *Element) IsTextEntry() bool {
	if e == nil {
		return false
	}
	if e.Tag == TagTextarea {
		return true
	}
	return e.Tag == TagInput && e.Type != InputCheckbox && e.Type != InputRange
}

// closest returns the nearest ancestor (or e itself) with the given tag.
func (e *Element) closest(tag string) *Element {
	for el := e; el != nil; el = el.Parent {
		if el.Tag == tag {
			return el
		}
	}
	return nil
}

func (e *Element) selectedText() string {
	if e.Selected >= 0 && e.Selected < len(e.Options) {
		if text := strings.TrimSpace(e.Options[e.Selected].Text); text != "" {
			return text
		}
	}
	return e.Value
}

// Label returns the accessible label of a form control: a label element
// pointing at its id, an enclosing label, its aria-label, or "Input field".
func (d *Document) Label(e *Element) string {
	if label := d.findLabel(e); label != "" {
		return label
	}
	return "Input field"
}

func (d *Document) findLabel(e *Element) string {
	if e.ID != "" {
		if label := d.labelFor(e.ID); label != nil {
			return strings.TrimSpace(label.Text)
		}
	}
	if label := e.Parent.closest(TagLabel); label != nil {
		return strings.TrimSpace(label.Text)
	}
	return e.AriaLabel
}

// Describe returns the narration text for e, or "" when it has nothing
// meaningful to say.
func (d *Document) Describe(e *Element) string {
	if e == nil {
		return ""
	}
	if e.AriaLabel != "" {
		return e.AriaLabel
	}

	text := strings.TrimSpace(e.Text)
	switch e.Tag {
	case TagInput:
		switch e.Type {
		case InputCheckbox:
			state := "not checked"
			if e.Checked {
				state = "checked"
			}
			return fmt.Sprintf("%s checkbox, %s", d.Label(e), state)
		case InputRange:
			return fmt.Sprintf("%s slider, value %s", d.Label(e), e.Value)
		default:
			if label := d.findLabel(e); label != "" {
				return label
			}
			if e.Placeholder != "" {
				return e.Placeholder
			}
			return "Input field"
		}
	case TagButton:
		if text == "" {
			return "Button"
		}
		return text
	case TagSelect:
		return fmt.Sprintf("%s, selected: %s", d.Label(e), e.selectedText())
	case TagLabel:
		return text
	case TagH1, TagH2, TagH3:
		return "Heading: " + text
	}

	if utf8.RuneCountInString(text) > 2 {
		return text
	}
	return ""
}
