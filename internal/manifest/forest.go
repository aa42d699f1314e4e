package manifest

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Event is a validated manifest event.
type Event struct {
	ID       string
	Title    string
	ParentID string // empty for root events
	Order    string // empty when the event has no order attribute

	// Attributes holds every attribute, including order. AttributeNames lists
	// the attribute names in document order.
	Attributes     map[string][]string
	AttributeNames []string
}

// IsRoot reports whether the event has no parent.
func (e *Event) IsRoot() bool {
	return e.ParentID == ""
}

// HasOrder reports whether the event carries an order value.
func (e *Event) HasOrder() bool {
	return e.Order != ""
}

// Forest is the typed, display-ordered view of a valid manifest.
type Forest struct {
	events   map[string]*Event
	ids      []string
	roots    []*Event
	children map[string][]*Event
}

// Build validates root and, when it is valid, returns the manifest as a
// Forest. The Forest is nil whenever the Result contains errors.
func Build(root any) (*Forest, Result) {
	res := Validate(root)
	if !res.Valid() {
		return nil, res
	}

	// Validate has established every shape assumption made below.
	doc, _ := asObject(root)
	rawEvents, _ := doc.Get("events")
	events, _ := asObject(rawEvents)

	f := &Forest{
		events:   make(map[string]*Event, events.Len()),
		children: make(map[string][]*Event),
	}
	for _, key := range events.Keys() {
		raw, _ := events.Get(key)
		obj, _ := asObject(raw)
		ev := newEvent(key, obj)

		f.events[key] = ev
		f.ids = append(f.ids, key)
		if ev.IsRoot() {
			f.roots = append(f.roots, ev)
		} else {
			f.children[ev.ParentID] = append(f.children[ev.ParentID], ev)
		}
	}

	col := collate.New(language.Und)
	sortSiblings(f.roots, col)
	for _, siblings := range f.children {
		sortSiblings(siblings, col)
	}
	return f, res
}

func newEvent(key string, obj *Object) *Event {
	ev := &Event{ID: key, Attributes: make(map[string][]string)}
	if title, ok := obj.Get("title"); ok {
		ev.Title, _ = title.(string)
	}
	if parent, ok := obj.Get("parent_id"); ok {
		ev.ParentID, _ = parent.(string)
	}

	rawAttrs, _ := obj.Get("attributes")
	attrs, _ := asObject(rawAttrs)
	for _, name := range attrs.Keys() {
		raw, _ := attrs.Get(name)
		items, _ := asArray(raw)
		values := make([]string, 0, len(items))
		for _, item := range items {
			s, _ := item.(string)
			values = append(values, s)
		}
		ev.Attributes[name] = values
		ev.AttributeNames = append(ev.AttributeNames, name)
	}
	if order := ev.Attributes[OrderAttribute]; len(order) == 1 {
		ev.Order = order[0]
	}
	return ev
}

// Len returns the number of events.
func (f *Forest) Len() int {
	return len(f.ids)
}

// Event returns the event with the given id.
func (f *Forest) Event(id string) (*Event, bool) {
	ev, ok := f.events[id]
	return ev, ok
}

// IDs returns every event id in document order.
func (f *Forest) IDs() []string {
	return slices.Clone(f.ids)
}

// Roots returns the root events in display order.
func (f *Forest) Roots() []*Event {
	return slices.Clone(f.roots)
}

// Children returns the children of id in display order.
func (f *Forest) Children(id string) []*Event {
	return slices.Clone(f.children[id])
}

// Walk visits every event depth first in display order. depth is 0 for roots.
// Walk stops at the first error returned by fn.
func (f *Forest) Walk(fn func(ev *Event, depth int) error) error {
	var walk func(events []*Event, depth int) error
	walk = func(events []*Event, depth int) error {
		for _, ev := range events {
			if err := fn(ev, depth); err != nil {
				return err
			}
			if err := walk(f.children[ev.ID], depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(f.roots, 0)
}

// sortSiblings orders events the way the tree view does: by numeric order
// ascending with unordered events last, then by title, then by id.
func sortSiblings(events []*Event, col *collate.Collator) {
	slices.SortStableFunc(events, func(a, b *Event) int {
		switch {
		case a.HasOrder() && b.HasOrder():
			if c := CompareOrder(a.Order, b.Order); c != 0 {
				return c
			}
		case a.HasOrder():
			return -1
		case b.HasOrder():
			return 1
		}
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// CompareOrder compares two digits-only order values numerically, without
// any limit on their length. "007" and "7" compare equal.
func CompareOrder(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
