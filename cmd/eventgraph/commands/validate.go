package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nghood/eventgraph/internal/manifest"
	"github.com/nghood/eventgraph/internal/printer"
	"github.com/nghood/eventgraph/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	format, err := parseFormat(cfg.Output)
	if err != nil {
		return err
	}

	path := manifestPath(cfg, args)
	_, res, err := checkManifest(path, format)
	if err != nil {
		return err
	}
	return presentResult(path, res, format, cfg.Strict)
}

func parseFormat(name string) (report.OutputFormat, error) {
	format, err := report.ParseOutputFormat(name)
	if err != nil {
		return "", out.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", name),
			[]string{"Valid formats: default, json"},
		)
	}
	return format, nil
}

// checkManifest loads and validates path. Infrastructure failures are
// printed and returned as errors; validation problems are in the Result.
func checkManifest(path string, format report.OutputFormat) (any, manifest.Result, error) {
	display := displayPath(path)
	if format == report.OutputFormatDefault {
		out.Step("Validating Bible Event Graph manifest: %s\n", display)
	}

	start := time.Now()
	doc, err := manifest.Load(path)
	if err != nil {
		return nil, manifest.Result{}, loadFailure(display, err)
	}

	res := manifest.Validate(doc)
	logger.Debug("Validated manifest",
		zap.String("path", display),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("elapsed", time.Since(start)))
	return doc, res, nil
}

// presentResult prints a validation result and returns a reported error when
// the manifest must be rejected
func presentResult(path string, res manifest.Result, format report.OutputFormat, strictMode bool) error {
	display := displayPath(path)
	passed := report.Passed(res, strictMode)

	if format == report.OutputFormatJSON {
		if err := report.FormatResultJSON(out.Out(), display, res, strictMode); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		if !passed {
			return printer.Reported("manifest is invalid")
		}
		return nil
	}

	if len(res.Warnings) > 0 {
		out.Warning("Warnings:\n")
		for _, w := range res.Warnings {
			out.Bullet("%s", w.Message)
		}
	}

	if len(res.Errors) > 0 {
		out.Failure("Validation failed with the following issues:\n")
		for _, e := range res.Errors {
			out.Bullet("%s", e.Message)
		}
		return printer.Reported("manifest is invalid")
	}

	if !passed {
		return out.Error(
			"validation failed in strict mode",
			fmt.Sprintf("%d warning(s) found and strict mode treats warnings as errors.", len(res.Warnings)),
			[]string{"Add an order attribute to every event, or run without --strict."},
		)
	}

	out.Success("Manifest is valid.\n")
	return nil
}

// loadFailure converts a read or parse failure into a printed error
func loadFailure(path string, err error) error {
	var readErr *manifest.ReadError
	var parseErr *manifest.ParseError

	switch {
	case errors.As(err, &readErr):
		return out.ErrorWithContext(
			"unable to read manifest",
			readErr.Err.Error(),
			map[string]string{"Manifest": path},
			[]string{
				"Pass the manifest path explicitly:\n  eventgraph path/to/manifest.json",
				"Create a starter manifest:\n  eventgraph init",
			},
		)
	case errors.As(err, &parseErr):
		return out.ErrorWithContext(
			"manifest is not valid JSON",
			parseErr.Msg,
			map[string]string{"Manifest": path, "Offset": strconv.FormatInt(parseErr.Offset, 10)},
			[]string{"Fix the JSON syntax and run eventgraph again."},
		)
	default:
		return out.Error("unable to load manifest", err.Error(), nil)
	}
}

// displayPath shows absolute paths so CI logs are unambiguous
func displayPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
