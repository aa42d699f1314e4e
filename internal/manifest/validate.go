package manifest

import (
	"regexp"
	"strings"
)

// OrderAttribute is the attribute holding an event's sibling sort key.
const OrderAttribute = "order"

// rootLabel names the synthetic parent of all root events in messages.
const rootLabel = "ROOT"

var allowedEventKeys = map[string]bool{
	"id":         true,
	"title":      true,
	"parent_id":  true,
	"attributes": true,
}

var orderPattern = regexp.MustCompile(`^[0-9]+$`)

// siblingGroup is the list of events sharing one parent, in document order.
type siblingGroup struct {
	parent   string
	root     bool
	children []string
}

func (g *siblingGroup) label() string {
	if g.root {
		return rootLabel
	}
	return g.parent
}

// parentLink records the parent_id of an event whose parent_id was usable.
type parentLink struct {
	event  string
	parent string
	root   bool
}

// graph is the structure recorded while checking events one by one.
// It is scoped to a single Validate call.
type graph struct {
	ids     []string
	exists  map[string]bool
	links   []parentLink
	groups  []*siblingGroup
	byOwner map[string]*siblingGroup
	roots   *siblingGroup
	orders  map[string]string
}

func newGraph(size int) *graph {
	return &graph{
		ids:     make([]string, 0, size),
		exists:  make(map[string]bool, size),
		byOwner: make(map[string]*siblingGroup),
		orders:  make(map[string]string),
	}
}

// Validate checks a decoded manifest and reports every problem found.
//
// root is normally the value returned by Decode or Load, but any value
// produced by encoding/json is accepted. Validate never panics and never
// mutates its input; the same input always yields the same Result.
func Validate(root any) Result {
	c := newCollector()

	doc, ok := asObject(root)
	if !ok {
		c.errorf(KindShape, "", "Manifest root must be an object.")
		return c.res
	}

	rawEvents, _ := doc.Get("events")
	events, ok := asObject(rawEvents)
	if !ok {
		c.errorf(KindShape, "", `Manifest must contain an "events" object.`)
		return c.res
	}

	if events.Len() == 0 {
		c.errorf(KindShape, "", `"events" must contain at least one entry.`)
		return c.res
	}

	g := newGraph(events.Len())
	// Only object entries can be parents; a null or scalar entry is reported
	// as malformed and does not satisfy references to it.
	for _, key := range events.Keys() {
		g.ids = append(g.ids, key)
		raw, _ := events.Get(key)
		if _, ok := asObject(raw); ok {
			g.exists[key] = true
		}
	}
	for _, key := range g.ids {
		raw, _ := events.Get(key)
		g.checkEvent(c, key, raw)
	}

	g.checkReferences(c)
	g.checkRoots(c)
	g.checkCycles(c)
	g.checkSiblingOrders(c)

	return c.res
}

func (g *graph) checkEvent(c *collector, key string, raw any) {
	event, ok := asObject(raw)
	if !ok {
		c.errorf(KindSchema, key, "events.%s must be an object.", key)
		return
	}

	for _, prop := range event.Keys() {
		if !allowedEventKeys[prop] {
			c.errorf(KindSchema, key, "events.%s contains unexpected property %q.", key, prop)
		}
	}

	rawID, _ := event.Get("id")
	if id, ok := nonEmptyString(rawID); !ok {
		c.errorf(KindSchema, key, "events.%s.id must be a non-empty string.", key)
	} else if id != key {
		c.errorf(KindSchema, key, "events.%s.id must match its key (expected %q, received %q).", key, key, id)
	}

	rawTitle, _ := event.Get("title")
	if _, ok := nonEmptyString(rawTitle); !ok {
		c.errorf(KindSchema, key, "events.%s.title must be a non-empty string.", key)
	}

	// A missing parent_id is the same as null.
	rawParent, _ := event.Get("parent_id")
	if rawParent == nil {
		g.link(key, "", true)
	} else if parent, ok := nonEmptyString(rawParent); ok {
		g.link(key, parent, false)
	} else {
		c.errorf(KindSchema, key, "events.%s.parent_id must be null or a non-empty string.", key)
	}

	rawAttrs, _ := event.Get("attributes")
	attrs, ok := asObject(rawAttrs)
	if !ok {
		c.errorf(KindAttribute, key, "events.%s.attributes must be an object.", key)
		return
	}
	for _, name := range attrs.Keys() {
		raw, _ := attrs.Get(name)
		g.checkAttribute(c, key, name, raw)
	}
}

func (g *graph) checkAttribute(c *collector, key, name string, raw any) {
	items, ok := asArray(raw)
	if !ok || len(items) == 0 {
		c.errorf(KindAttribute, key, "events.%s.attributes[%q] must be a non-empty array.", key, name)
		return
	}

	for _, item := range items {
		if _, ok := nonEmptyString(item); !ok {
			c.errorf(KindAttribute, key, "events.%s.attributes[%q] must contain only non-empty strings.", key, name)
			break
		}
	}

	if name != OrderAttribute {
		return
	}
	if len(items) != 1 {
		c.errorf(KindAttribute, key, "events.%s.attributes.order must contain exactly one value.", key)
		return
	}
	order, ok := items[0].(string)
	if !ok || !orderPattern.MatchString(order) {
		c.errorf(KindAttribute, key, "events.%s.attributes.order must be an integer represented as digits only.", key)
		return
	}
	g.orders[key] = order
}

// link records event under its parent's sibling group.
func (g *graph) link(event, parent string, root bool) {
	g.links = append(g.links, parentLink{event: event, parent: parent, root: root})

	var group *siblingGroup
	if root {
		if g.roots == nil {
			g.roots = &siblingGroup{root: true}
			g.groups = append(g.groups, g.roots)
		}
		group = g.roots
	} else {
		group = g.byOwner[parent]
		if group == nil {
			group = &siblingGroup{parent: parent}
			g.byOwner[parent] = group
			g.groups = append(g.groups, group)
		}
	}
	group.children = append(group.children, event)
}

func (g *graph) checkReferences(c *collector) {
	for _, l := range g.links {
		if !l.root && !g.exists[l.parent] {
			c.errorf(KindReference, l.event, "events.%s.parent_id references missing event %q.", l.event, l.parent)
		}
	}
}

func (g *graph) rootIDs() []string {
	if g.roots == nil {
		return nil
	}
	return g.roots.children
}

func (g *graph) childIDs(id string) []string {
	if group := g.byOwner[id]; group != nil {
		return group.children
	}
	return nil
}

func (g *graph) checkRoots(c *collector) {
	if len(g.rootIDs()) == 0 {
		c.errorf(KindTopology, "", "At least one root event (parent_id: null) is required.")
	}
}

// checkCycles walks parent → child edges depth first, first from every root
// and then from every event not yet finished, so that islands unreachable
// from a root are covered too. A cycle may be reported once per entry point.
func (g *graph) checkCycles(c *collector) {
	done := make(map[string]bool, len(g.ids))
	onPath := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		if onPath[id] {
			c.errorf(KindTopology, id, "Cycle detected at event %q.", id)
			return
		}
		if done[id] {
			return
		}

		onPath[id] = true
		for _, child := range g.childIDs(id) {
			visit(child)
		}
		delete(onPath, id)
		done[id] = true
	}

	for _, id := range g.rootIDs() {
		visit(id)
	}
	for _, id := range g.ids {
		if !done[id] {
			visit(id)
		}
	}
}

func (g *graph) checkSiblingOrders(c *collector) {
	for _, group := range g.groups {
		seen := make(map[string]string, len(group.children))
		for _, child := range group.children {
			order, ok := g.orders[child]
			if !ok {
				c.warnf(KindOrder, child, "events.%s is missing an order value and will render after ordered siblings.", child)
				continue
			}
			if first, dup := seen[order]; dup {
				c.errorf(KindUniqueness, child, "Duplicate order %q under parent %q for events %q and %q.",
					order, group.label(), first, child)
				continue
			}
			seen[order] = child
		}
	}
}

// nonEmptyString returns v as a string when it is a string with at least one
// non-space character.
func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
