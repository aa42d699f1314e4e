package manifest

import "fmt"

// Kind classifies a validation issue.
type Kind string

const (
	// KindShape: the document root or the events container is unusable.
	KindShape Kind = "shape"
	// KindSchema: an event has a missing, mistyped, mismatched or unexpected field.
	KindSchema Kind = "schema"
	// KindAttribute: an attribute or the order attribute is malformed.
	KindAttribute Kind = "attribute"
	// KindReference: a parent_id names an event that does not exist.
	KindReference Kind = "reference"
	// KindTopology: there is no root event, or the parent relation has a cycle.
	KindTopology Kind = "topology"
	// KindUniqueness: two siblings share an order value.
	KindUniqueness Kind = "uniqueness"
	// KindOrder: an event has no order value (warning only).
	KindOrder Kind = "order"
)

// Issue is a single validation finding.
type Issue struct {
	Kind    Kind   `json:"kind"`
	Event   string `json:"event,omitempty"` // event key the issue concerns, if any
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Message
}

// Result holds everything a validation pass found. Both lists are always
// non-nil. Any error means the manifest must be rejected.
type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Valid reports whether the result contains no errors.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorMessages returns the error messages in reporting order.
func (r Result) ErrorMessages() []string {
	return messages(r.Errors)
}

// WarningMessages returns the warning messages in reporting order.
func (r Result) WarningMessages() []string {
	return messages(r.Warnings)
}

func messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}

// collector accumulates issues for a single validation pass.
type collector struct {
	res Result
}

func newCollector() *collector {
	return &collector{res: Result{Errors: []Issue{}, Warnings: []Issue{}}}
}

func (c *collector) errorf(kind Kind, event, format string, args ...any) {
	c.res.Errors = append(c.res.Errors, Issue{Kind: kind, Event: event, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) warnf(kind Kind, event, format string, args ...any) {
	c.res.Warnings = append(c.res.Warnings, Issue{Kind: kind, Event: event, Message: fmt.Sprintf(format, args...)})
}
