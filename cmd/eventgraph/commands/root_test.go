package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/nghood/eventgraph/internal/printer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory to dir for the duration of the test,
// like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(previous); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

// runCLI executes the real root command with args and captures everything the
// printer writes. Flag state is reset first because cobra keeps it between runs.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

// runCLIContext is runCLI with a parent context. Subcommands keep the context
// of their first run, so it is set on every command explicitly.
func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()

	previousColor := color.NoColor
	previousOut := out
	t.Cleanup(func() {
		color.NoColor = previousColor
		out = previousOut
	})
	color.NoColor = true

	resetFlags()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	out = printer.New(stdout, stderr)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	for _, cmd := range rootCmd.Commands() {
		cmd.SetContext(ctx)
	}

	err := ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, cmd := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
	}
}

// writeFile writes content to name inside dir and returns the full path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// TestRootCommand_RejectsUnknownFlags tests that unknown flags
// passed to the root command cause an error instead of being silently ignored
func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	chdir(t, t.TempDir())

	_, stderr, err := runCLI(t, "--unknown-flag", "value")
	require.Error(t, err, "Unknown flag should cause an error")
	assert.Contains(t, err.Error(), "unknown flag")
	assert.Contains(t, stderr, "See 'eventgraph --help' for usage.")
}

// TestRootCommand_RejectsSubcommandFlags tests that flags meant for
// subcommands (like --force) are rejected when passed to the root command
func TestRootCommand_RejectsSubcommandFlags(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := runCLI(t, "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag: --force")
}

func TestRootCommand_RejectsExtraArguments(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := runCLI(t, "a.json", "b.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s), received 2")
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := runCLI(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "eventgraph [MANIFEST]")
	assert.Contains(t, stdout, "tree")
	assert.Contains(t, stdout, "watch")
	assert.Contains(t, stdout, "init")
}

func TestRootCommand_Version(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")

	stdout, _, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3 (commit: abc123, built: 2026-01-01)")
}

func TestLoadSettings_ExplicitMissingConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "events.json", validManifest)

	_, stderr, err := runCLI(t, "--config", filepath.Join(dir, "missing.yml"), path)
	require.Error(t, err)
	assert.True(t, printer.IsReported(err))
	assert.Contains(t, stderr, "invalid configuration")
	assert.Contains(t, stderr, "failed to read config")
}

func TestLoadSettings_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".eventgraph.yml", "version: \"2.0\"\n")

	_, stderr, err := runCLI(t)
	require.Error(t, err)
	assert.Contains(t, stderr, "unsupported version: 2.0")
	assert.Contains(t, stderr, "eventgraph init")
}
