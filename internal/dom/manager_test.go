package dom

import (
	"strings"
	"testing"

	"github.com/inclove/inclove/internal/a11y"
)

type announcement struct {
	text   string
	source a11y.Source
}

type recorder struct {
	got []announcement
}

func (r *recorder) Announce(text string, source a11y.Source, _ a11y.Priority) {
	r.got = append(r.got, announcement{text, source})
}

func (r *recorder) last() announcement {
	if len(r.got) == 0 {
		return announcement{}
	}
	return r.got[len(r.got)-1]
}

func TestListenerLeakFreedom(t *testing.T) {
	doc := NewDocument()
	m := NewManager(doc, &recorder{})

	for i := 0; i < 25; i++ {
		m.Enable()
		if i%3 == 0 {
			m.Enable()
		}
		if doc.Listeners() != 5 {
			t.Fatalf("cycle %d: Listeners() = %d, want 5", i, doc.Listeners())
		}
		m.Disable()
		if i%4 == 0 {
			m.Disable()
		}
	}
	m.Disable()

	if doc.Listeners() != 0 {
		t.Errorf("Listeners() = %d after final Disable, want 0", doc.Listeners())
	}
}

func TestSubscriptionDispose(t *testing.T) {
	doc := NewDocument()
	m := NewManager(doc, &recorder{})

	sub := m.Enable()
	regs := sub.Registrations()
	if len(regs) != 5 {
		t.Fatalf("registrations = %d, want 5", len(regs))
	}
	types := map[EventType]bool{}
	for _, r := range regs {
		types[r.Type] = true
		if !r.Attached {
			t.Errorf("%s not attached", r.Type)
		}
	}
	for _, want := range []EventType{EventFocus, EventClick, EventMouseOver, EventInput, EventChange} {
		if !types[want] {
			t.Errorf("missing %s listener", want)
		}
	}

	sub.Dispose()
	sub.Dispose()
	if sub.Active() || doc.Listeners() != 0 {
		t.Error("Dispose should detach every listener")
	}
}

func TestSync(t *testing.T) {
	doc := NewDocument()
	m := NewManager(doc, &recorder{})

	m.Sync(true)
	first := m.sub
	m.Sync(true)
	if m.sub != first {
		t.Error("Sync(true) twice should keep the subscription")
	}
	m.Sync(false)
	m.Sync(false)
	if m.Enabled() || doc.Listeners() != 0 {
		t.Error("Sync(false) should detach")
	}
}

func TestNarration(t *testing.T) {
	doc := NewDocument()
	rec := &recorder{}
	m := NewManager(doc, rec)
	m.Enable()

	label := &Element{Tag: TagLabel, For: "name", Text: " Name "}
	name := &Element{Tag: TagInput, Type: InputText, ID: "name", Value: "Alex"}
	bio := &Element{Tag: TagTextarea, ID: "bio", AriaLabel: "Bio", Value: "Hiking"}
	notify := &Element{Tag: TagInput, Type: InputCheckbox, Checked: true}
	wrap := &Element{Tag: TagLabel, Text: "Notifications"}
	notify.Parent = wrap
	volume := &Element{Tag: TagInput, Type: InputRange, AriaLabel: "Volume", Value: "7"}
	lang := &Element{Tag: TagSelect, ID: "lang", Value: "fr", Options: []Option{{"en", "English"}, {"fr", "French"}}, Selected: 1}
	langLabel := &Element{Tag: TagLabel, For: "lang", Text: "Language"}
	doc.Append(label, name, bio, wrap, notify, volume, lang, langLabel)

	tests := []struct {
		name   string
		event  Event
		want   string
		source a11y.Source
	}{
		{"focus input", Event{EventFocus, name}, "Focused on: Name", a11y.SourceAmbient},
		{"hover button", Event{EventMouseOver, &Element{Tag: TagButton, Text: "Like"}}, "Like", a11y.SourceAmbient},
		{"click heading", Event{EventClick, &Element{Tag: TagH2, Text: "About Alex"}}, "Heading: About Alex", a11y.SourceAmbient},
		{"typing", Event{EventInput, name}, "Typing in Name: Alex", a11y.SourceTyping},
		{"typing textarea", Event{EventInput, bio}, "Typing in Bio: Hiking", a11y.SourceTyping},
		{"select change", Event{EventChange, lang}, "Selection changed to: fr", a11y.SourceToggle},
		{"checkbox change", Event{EventChange, notify}, "Notifications checked", a11y.SourceToggle},
		{"range change", Event{EventChange, volume}, "Volume set to 7", a11y.SourceToggle},
		{"focus select", Event{EventFocus, lang}, "Focused on: Language, selected: French", a11y.SourceAmbient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc.Dispatch(tt.event)
			got := rec.last()
			if got.text != tt.want || got.source != tt.source {
				t.Errorf("got %q (%s), want %q (%s)", got.text, got.source, tt.want, tt.source)
			}
		})
	}
}

func TestNarrationSkips(t *testing.T) {
	doc := NewDocument()
	rec := &recorder{}
	m := NewManager(doc, rec)
	m.Enable()

	doc.Dispatch(Event{EventMouseOver, &Element{Tag: TagDiv, Text: strings.Repeat("x", MaxHoverRunes)}})
	doc.Dispatch(Event{EventMouseOver, &Element{Tag: TagSpan, Text: "ok"}})
	doc.Dispatch(Event{EventInput, &Element{Tag: TagInput, Type: InputCheckbox}})
	doc.Dispatch(Event{EventInput, &Element{Tag: TagInput, Value: ""}})
	doc.Dispatch(Event{EventChange, &Element{Tag: TagInput, Type: InputText, Value: "x"}})

	if len(rec.got) != 0 {
		t.Errorf("unexpected announcements: %v", rec.got)
	}

	m.Disable()
	doc.Dispatch(Event{EventFocus, &Element{Tag: TagButton, Text: "Pass"}})
	if len(rec.got) != 0 {
		t.Error("disabled manager should not narrate")
	}
}

func TestFocusNarrationHasNoLengthLimit(t *testing.T) {
	doc := NewDocument()
	rec := &recorder{}
	m := NewManager(doc, rec)
	m.Enable()

	long := strings.Repeat("x", 250)
	doc.Dispatch(Event{EventFocus, &Element{Tag: TagDiv, Text: long}})
	if got := rec.last(); got.text != "Focused on: "+long || got.source != a11y.SourceAmbient {
		t.Errorf("got %q (%s), want the full focus narration", got.text, got.source)
	}

	doc.Dispatch(Event{EventMouseOver, &Element{Tag: TagDiv, Text: long}})
	if len(rec.got) != 1 {
		t.Errorf("long hover text should still be skipped, got %d announcements", len(rec.got))
	}
}

func TestDescribe(t *testing.T) {
	doc := NewDocument()
	doc.Append(&Element{Tag: TagLabel, For: "age", Text: "Age"})

	tests := []struct {
		name string
		el   *Element
		want string
	}{
		{"nil", nil, ""},
		{"aria label wins", &Element{Tag: TagButton, AriaLabel: "Send message", Text: "➤"}, "Send message"},
		{"checkbox unchecked", &Element{Tag: TagInput, Type: InputCheckbox, ID: "age"}, "Age checkbox, not checked"},
		{"range", &Element{Tag: TagInput, Type: InputRange, ID: "age", Value: "30"}, "Age slider, value 30"},
		{"input label", &Element{Tag: TagInput, ID: "age"}, "Age"},
		{"input placeholder", &Element{Tag: TagInput, Placeholder: "Type a message"}, "Type a message"},
		{"input fallback", &Element{Tag: TagInput}, "Input field"},
		{"checkbox no label", &Element{Tag: TagInput, Type: InputCheckbox}, "Input field checkbox, not checked"},
		{"empty button", &Element{Tag: TagButton, Text: "  "}, "Button"},
		{"label", &Element{Tag: TagLabel, Text: " Age "}, "Age"},
		{"heading", &Element{Tag: TagH1, Text: "Explore"}, "Heading: Explore"},
		{"short text", &Element{Tag: TagSpan, Text: "ab"}, ""},
		{"text", &Element{Tag: TagDiv, Text: "Loves hiking"}, "Loves hiking"},
		{"unicode length", &Element{Tag: TagSpan, Text: "❤❤"}, ""},
		{"select without options", &Element{Tag: TagSelect, Value: "x"}, "Input field, selected: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.Describe(tt.el); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentClassList(t *testing.T) {
	doc := NewDocument()
	doc.Add("zoom-normal")
	doc.Add("high-contrast")
	doc.Add("high-contrast")
	doc.Remove("missing")

	got := doc.Classes()
	if len(got) != 2 || got[0] != "high-contrast" || got[1] != "zoom-normal" {
		t.Errorf("Classes() = %v", got)
	}
	doc.Remove("high-contrast")
	if doc.Has("high-contrast") {
		t.Error("Remove did not remove")
	}
}

func TestDispatchOrderAndRemoval(t *testing.T) {
	doc := NewDocument()
	var order []int
	a := doc.AddListener(EventClick, func(Event) { order = append(order, 1) })
	doc.AddListener(EventClick, func(Event) { order = append(order, 2) })
	doc.Dispatch(Event{Type: EventClick})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v", order)
	}
	if !doc.RemoveListener(EventClick, a) || doc.RemoveListener(EventClick, a) {
		t.Error("RemoveListener should succeed exactly once")
	}
	if doc.ElementByID("") != nil {
		t.Error("empty id should not match")
	}
}
