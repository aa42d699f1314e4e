package printer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	// Color definitions
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// ReportedError is returned once a message has already been shown to the
// user. Callers should exit non-zero without printing it again.
type ReportedError struct {
	Title string
}

func (e *ReportedError) Error() string {
	return e.Title
}

// Reported returns a ReportedError with the given title.
func Reported(title string) error {
	return &ReportedError{Title: title}
}

// IsReported checks if err has already been printed for the user.
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}

// Printer writes user-facing CLI output. Regular output goes to out;
// warnings, validation issues and errors go to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// New creates a Printer writing to the given streams.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// Default creates a Printer bound to stdout and stderr.
func Default() *Printer {
	return New(os.Stdout, os.Stderr)
}

// Out returns the regular output stream, for machine-readable output.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Success prints a success message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Fprintf(p.out, "✓ %s", msg)
	} else {
		green.Fprint(p.out, msg)
	}
}

// Info prints an informational message in the default color
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Step prints a step message with emphasis (used in multi-step operations)
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s", fmt.Sprintf(format, a...))
}

// Warning prints a warning message in yellow with a warning emoji prefix
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		yellow.Fprintf(p.errOut, "⚠️  %s", msg)
	} else {
		yellow.Fprint(p.errOut, msg)
	}
}

// Failure prints a red headline for a list of problems that follows
func (p *Printer) Failure(format string, a ...any) {
	red.Fprintf(p.errOut, format, a...)
}

// Bullet prints a single indented list item to the error stream
func (p *Printer) Bullet(format string, a ...any) {
	fmt.Fprintf(p.errOut, "  • %s\n", fmt.Sprintf(format, a...))
}

// Error prints a formatted error message with title, explanation, and
// suggestions to the error stream and returns a ReportedError for Cobra
func (p *Printer) Error(title string, explanation string, suggestions []string) error {
	return p.ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext is Error with an extra block of key/value details,
// printed in key order
func (p *Printer) ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(p.errOut, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(p.errOut, "%s\n", explanation)
	}

	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for key := range context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintf(p.errOut, "\n")
		for _, key := range keys {
			fmt.Fprintf(p.errOut, "  %s: %s\n", key, context[key])
		}
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(p.errOut, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(p.errOut, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(p.errOut, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(p.errOut, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	return Reported(title)
}

// Println prints a plain message (for output that doesn't need coloring)
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf prints a plain formatted message (for output that doesn't need coloring)
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}
