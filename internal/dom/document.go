// Package dom models the page as a small in-process document: elements,
// an event target with listener registration, and the root class list the
// presentation layer reads. The Manager instruments it for screen reader
// narration.
package dom

import (
	"sort"
	"sync"
)

// EventType names a document event.
type EventType string

const (
	EventFocus     EventType = "focus"
	EventClick     EventType = "click"
	EventMouseOver EventType = "mouseover"
	EventInput     EventType = "input"
	EventChange    EventType = "change"
)

// Event is dispatched to listeners of its type.
type Event struct {
	Type   EventType
	Target *Element
}

// Listener handles an event.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

// Document is the event target and root of the element tree.
type Document struct {
	mu        sync.RWMutex
	listeners map[EventType]map[ListenerID]Listener
	nextID    ListenerID
	elements  []*Element
	classes   map[string]struct{}
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		listeners: make(map[EventType]map[ListenerID]Listener),
		classes:   make(map[string]struct{}),
	}
}

// Append adds elements to the document so they can be found by lookups.
func (d *Document) Append(elements ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements = append(d.elements, elements...)
}

// ElementByID returns the first element with the given id.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, el := range d.elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}

// labelFor returns the label element whose For attribute is id.
func (d *Document) labelFor(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, el := range d.elements {
		if el.Tag == TagLabel && el.For == id {
			return el
		}
	}
	return nil
}

// AddListener registers fn for events of type t.
func (d *Document) AddListener(t EventType, fn Listener) ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	if d.listeners[t] == nil {
		d.listeners[t] = make(map[ListenerID]Listener)
	}
	d.listeners[t][id] = fn
	return id
}

// RemoveListener unregisters a listener. It reports whether it was
// registered.
func (d *Document) RemoveListener(t EventType, id ListenerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.listeners[t][id]; !ok {
		return false
	}
	delete(d.listeners[t], id)
	if len(d.listeners[t]) == 0 {
		delete(d.listeners, t)
	}
	return true
}

// Dispatch delivers e to every listener of its type in registration order.
// Listeners run without the document lock held.
func (d *Document) Dispatch(e Event) {
	d.mu.RLock()
	ids := make([]ListenerID, 0, len(d.listeners[e.Type]))
	for id := range d.listeners[e.Type] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = d.listeners[e.Type][id]
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Listeners returns the number of attached listeners of every type.
func (d *Document) Listeners() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, m := range d.listeners {
		n += len(m)
	}
	return n
}

// Add puts class on the root class list.
func (d *Document) Add(class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.classes[class] = struct{}{}
}

// Remove takes class off the root class list.
func (d *Document) Remove(class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.classes, class)
}

// Has reports whether class is on the root class list.
func (d *Document) Has(class string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.classes[class]
	return ok
}

// Classes returns the root class list, sorted.
func (d *Document) Classes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.classes))
	for c := range d.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
