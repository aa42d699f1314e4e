package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nghood/eventgraph/internal/manifest"
)

// OutputFormat specifies how results and outlines are written.
type OutputFormat string

const (
	// OutputFormatDefault is human-readable text
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSON is a single JSON document
	OutputFormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case OutputFormatDefault, OutputFormatJSON:
		return OutputFormat(name), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", name)
	}
}

// resultDocument is the JSON shape of a validation run.
type resultDocument struct {
	Manifest string           `json:"manifest"`
	Valid    bool             `json:"valid"`
	Strict   bool             `json:"strict,omitempty"`
	Errors   []manifest.Issue `json:"errors"`
	Warnings []manifest.Issue `json:"warnings"`
}

// Passed reports whether a result should be accepted. In strict mode any
// warning also fails the manifest.
func Passed(res manifest.Result, strict bool) bool {
	if !res.Valid() {
		return false
	}
	return !strict || len(res.Warnings) == 0
}

// FormatResultJSON writes a validation result as pretty-printed JSON.
func FormatResultJSON(w io.Writer, path string, res manifest.Result, strict bool) error {
	doc := resultDocument{
		Manifest: path,
		Valid:    Passed(res, strict),
		Strict:   strict,
		Errors:   nonNil(res.Errors),
		Warnings: nonNil(res.Warnings),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

func nonNil(issues []manifest.Issue) []manifest.Issue {
	if issues == nil {
		return []manifest.Issue{}
	}
	return issues
}

// FormatOutline writes the forest as an indented tree, one event per line:
//
//	[1] Creation (creation)
//	  [1] Garden of Eden (eden)
//	  [-] Unordered child (child)
//
// Returns the number of events written.
func FormatOutline(w io.Writer, forest *manifest.Forest) (int, error) {
	count := 0
	err := forest.Walk(func(ev *manifest.Event, depth int) error {
		count++
		_, err := fmt.Fprintf(w, "%s[%s] %s (%s)\n",
			strings.Repeat("  ", depth), formatOrder(ev.Order), ev.Title, ev.ID)
		return err
	})
	if err != nil {
		return count, fmt.Errorf("failed to write outline: %w", err)
	}

	noun := "event"
	if count != 1 {
		noun = "events"
	}
	if _, err := fmt.Fprintf(w, "\n%d %s\n", count, noun); err != nil {
		return count, fmt.Errorf("failed to write outline: %w", err)
	}
	return count, nil
}

// formatOrder shows "-" for events without an order value.
func formatOrder(order string) string {
	if order == "" {
		return "-"
	}
	return order
}

// outlineNode is the JSON shape of one event in an outline.
type outlineNode struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Order      string              `json:"order,omitempty"`
	Attributes map[string][]string `json:"attributes,omitempty"`
	Children   []*outlineNode      `json:"children"`
}

// FormatOutlineJSON writes the forest as a nested JSON array of root events.
func FormatOutlineJSON(w io.Writer, forest *manifest.Forest) error {
	var build func(events []*manifest.Event) []*outlineNode
	build = func(events []*manifest.Event) []*outlineNode {
		nodes := make([]*outlineNode, 0, len(events))
		for _, ev := range events {
			node := &outlineNode{
				ID:       ev.ID,
				Title:    ev.Title,
				Order:    ev.Order,
				Children: build(forest.Children(ev.ID)),
			}
			if len(ev.Attributes) > 0 {
				node.Attributes = ev.Attributes
			}
			nodes = append(nodes, node)
		}
		return nodes
	}

	data, err := json.MarshalIndent(build(forest.Roots()), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outline to JSON: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
